package main

import (
	"log"
	"os"
)

func fail(err error) {
	log.Fatal(err) // want `log.Fatal\(\) should only be called from main function in main package`
}

func stop() {
	os.Exit(1) // want `os.Exit\(\) should only be called from main function in main package`
}

func main() {
	fail(nil)
	stop()
}
