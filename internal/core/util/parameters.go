package util

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func init() {
	// request bodies may only carry the documented fields
	binding.EnableDecoderDisallowUnknownFields = true
}

// ParamsToMap decodes the JSON body into T. Unknown fields are rejected and
// an empty body decodes to the zero value, leaving required checks to the
// validator.
func ParamsToMap[T any](c *gin.Context) (T, error) {
	var params T

	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return params, nil
	}

	if err := c.ShouldBindBodyWith(&params, binding.JSON); err != nil {
		if errors.Is(err, io.EOF) {
			return params, nil
		}

		return params, err
	}

	return params, nil
}
