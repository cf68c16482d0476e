package handler

import (
	"errors"
	"net/http"
	"reflect"

	"restonext/internal/apierror"
	"restonext/internal/middleware"
	"restonext/internal/service"
	"restonext/internal/units"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the
// caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// unrecognised is attached to the context for the ErrorHandler to log and
// answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"detail":     err.Error(),
			"ingredient": stockErr.Ingredient,
			"required":   stockErr.Required,
			"available":  stockErr.Available,
		})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, units.ErrIncompatibleUnits):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}

// scope returns the caller's tenant and actor from the verified token.
func scope(c *gin.Context) (uuid.UUID, *uuid.UUID) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil, nil
	}
	return claims.Tenant(), claims.Actor()
}

// parseID reads a uuid path parameter, answering 400 when malformed.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
