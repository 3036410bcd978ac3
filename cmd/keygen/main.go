// Command keygen writes a fresh ECDSA P-256 log key pair as PEM files and
// prints the resulting log ID.
package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/keys"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
	privPath := flags.StringP("private", "o", "log.pem", "Output path for the private key")
	pubPath := flags.StringP("public", "p", "log.pub.pem", "Output path for the public key")
	force := flags.BoolP("force", "f", false, "Overwrite existing files")
	if err := flags.Parse(args); err != nil {
		return err
	}

	key, err := keys.GenerateP256()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	privPEM, err := keys.EncodePrivateKeyPEM(key)
	if err != nil {
		return err
	}
	pubPEM, err := keys.EncodePublicKeyPEM(key.Public())
	if err != nil {
		return err
	}

	if err := writeFile(*privPath, privPEM, 0o600, *force); err != nil {
		return err
	}
	if err := writeFile(*pubPath, pubPEM, 0o644, *force); err != nil {
		return err
	}

	logID, err := keys.LogID(key.Public())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "log id: %s\n", base64.StdEncoding.EncodeToString(logID[:]))
	return nil
}

func writeFile(path string, data []byte, perm os.FileMode, force bool) error {
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flag |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
