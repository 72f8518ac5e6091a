package handlers

import (
	"sync"
	"time"

	"reservo/services/capacity"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the "isodate" (YYYY-MM-DD) and "clock" (time of
// day) tags to gin's validator.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err = v.RegisterValidation("isodate", isoDate); err != nil {
			return
		}
		err = v.RegisterValidation("clock", clockOfDay)
	})
	return err
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(capacity.DateLayout, fl.Field().String())
	return err == nil
}

func clockOfDay(fl validator.FieldLevel) bool {
	_, err := capacity.NormalizeClock(fl.Field().String())
	return err == nil
}
