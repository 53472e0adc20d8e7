//go:build !debug

package impulse

func check(truth bool, msg ...interface{}) {}
