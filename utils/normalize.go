package utils

import (
	"math"
	"reflect"
	"strings"
)

// Round2 rounds x to 2 decimal places (deal values, sale amounts).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// NormalizeDTO trims string fields and rounds float64 fields on a
// pointer-to-struct DTO. Pointer fields are normalized in place when
// non-nil; nils stay nil so GORM won't update them.
func NormalizeDTO(dto any) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Kind() == reflect.Ptr {
			if f.IsNil() {
				continue
			}
			f = f.Elem()
		}
		switch f.Kind() {
		case reflect.String:
			if f.CanSet() {
				f.SetString(strings.TrimSpace(f.String()))
			}
		case reflect.Float64:
			if f.CanSet() {
				f.SetFloat(Round2(f.Float()))
			}
		}
	}
}
