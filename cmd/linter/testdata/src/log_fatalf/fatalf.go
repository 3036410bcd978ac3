package log_fatalf

import "log"

func Must(err error) {
	if err != nil {
		log.Fatalf("unexpected: %v", err) // want `log.Fatalf\(\) should only be called from main function in main package`
	}
}
