//go:build race

package scan_test

func init() {
	raceEnabled = true
}
