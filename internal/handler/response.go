package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"family-board/internal/logger"
	"family-board/internal/model"
	"family-board/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, model.Response{Success: true, Message: message, Data: data})
}

// fail replies 400 with the message of a domain error and 500 with a
// generic message for anything else.
func fail(c *gin.Context, err error) {
	if service.IsDomain(err) {
		c.JSON(http.StatusBadRequest, model.Response{Message: err.Error()})
		return
	}
	_ = c.Error(err)
	logger.Error("http.internal", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, model.Response{Message: "internal server error"})
}

func notFound(c *gin.Context, err error) {
	c.JSON(http.StatusNotFound, model.Response{Message: err.Error()})
}

// badRequest reports a binding failure with a field-specific message.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.Response{Message: bindMessage(err)})
}

func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		default:
			return fe.Field() + " is invalid"
		}
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return fmt.Sprintf("%s must be a %s", te.Field, te.Type.Kind())
	}
	return "malformed request body"
}

var jsonNames sync.Once

// useJSONFieldNames makes validation errors name fields as clients send them.
func useJSONFieldNames() {
	jsonNames.Do(func() {
		v, isValidator := binding.Validator.Engine().(*validator.Validate)
		if !isValidator {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

func pathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Field: param, Msg: "invalid " + param}
	}
	return uint(id), nil
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}
