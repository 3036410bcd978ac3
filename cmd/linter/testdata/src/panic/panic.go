package panic

func Check(ok bool) {
	if !ok {
		panic("not ok") // want `panic\(\) should not be used in production code`
	}
}
