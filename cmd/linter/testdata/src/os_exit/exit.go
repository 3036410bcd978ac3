package os_exit

import "os"

func Quit(code int) {
	os.Exit(code) // want `os.Exit\(\) should only be called from main function in main package`
}
