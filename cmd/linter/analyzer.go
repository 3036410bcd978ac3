package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const doc = `forbidcalls reports calls that must not appear in production code

It reports:
1. any use of panic()
2. log.Fatal*() or os.Exit() outside the main function of a main package
3. ecdsa.Sign*() or ecdsa.Verify*() outside the logsigner package`

// signingPackage is the only package allowed to call the raw ECDSA
// primitives.
const signingPackage = "logsigner"

var Analyzer = &analysis.Analyzer{
	Name:     "forbidcalls",
	Doc:      doc,
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspector.Preorder(nodeFilter, func(node ast.Node) {
		callExpr := node.(*ast.CallExpr)

		if ident, ok := callExpr.Fun.(*ast.Ident); ok && ident.Name == "panic" {
			if _, builtin := pass.TypesInfo.Uses[ident].(*types.Builtin); builtin {
				pass.Reportf(callExpr.Pos(), "panic() should not be used in production code")
			}
			return
		}

		selExpr, ok := callExpr.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		pkgPath, funcName, ok := packageFunc(pass, selExpr)
		if !ok {
			return
		}

		switch {
		case pkgPath == "log" && strings.HasPrefix(funcName, "Fatal"):
			if !isInMainFunction(pass, node) {
				pass.Reportf(callExpr.Pos(),
					"log.%s() should only be called from main function in main package", funcName)
			}
		case pkgPath == "os" && funcName == "Exit":
			if !isInMainFunction(pass, node) {
				pass.Reportf(callExpr.Pos(), "os.Exit() should only be called from main function in main package")
			}
		case pkgPath == "crypto/ecdsa" && (strings.HasPrefix(funcName, "Sign") || strings.HasPrefix(funcName, "Verify")):
			if !isSigningPackage(pass) {
				pass.Reportf(callExpr.Pos(), "ecdsa.%s() should only be called from the %s package", funcName, signingPackage)
			}
		}
	})

	return nil, nil
}

// packageFunc resolves sel to a package-level function and returns its
// import path and name. Methods and variables shadowing a package name are
// not matched.
func packageFunc(pass *analysis.Pass, sel *ast.SelectorExpr) (string, string, bool) {
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return "", "", false
	}
	if sig, ok := fn.Type().(*types.Signature); !ok || sig.Recv() != nil {
		return "", "", false
	}
	return fn.Pkg().Path(), fn.Name(), true
}

func isSigningPackage(pass *analysis.Pass) bool {
	path := pass.Pkg.Path()
	return path == signingPackage || strings.HasSuffix(path, "/"+signingPackage)
}

func isInMainFunction(pass *analysis.Pass, node ast.Node) bool {
	if pass.Pkg.Name() != "main" {
		return false
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == "main" && fn.Recv == nil && fn.Body != nil {
				if node.Pos() >= fn.Body.Lbrace && node.Pos() <= fn.Body.Rbrace {
					return true
				}
			}
		}
	}
	return false
}
