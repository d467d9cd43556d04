package emulator

import (
	"github.com/ezrec/hartstack/translate"
)

var f = translate.From

// ErrScript indicates a scenario script failure.
type ErrScript struct {
	Name string
	Err  error
}

func (err *ErrScript) Error() string {
	return f("script %v: %v", err.Name, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}
