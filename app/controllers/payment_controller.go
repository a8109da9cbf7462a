package controllers

import (
	"net/http"

	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/pkg/bind"
	"github.com/pentshop/pentshop/pkg/response"
)

type PaymentController struct {
	service *services.OrderService
}

func NewPaymentController(service *services.OrderService) *PaymentController {
	return &PaymentController{service: service}
}

// Initiate handles POST /api/paystack/initiate. It opens a Paystack
// checkout session and records the pending order under the gateway
// reference; the client is redirected to the authorization URL.
func (c *PaymentController) Initiate(w http.ResponseWriter, r *http.Request) {
	var in services.PaymentInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	session, order, err := c.service.InitiatePayment(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"authorizationUrl": session.AuthorizationURL,
		"accessCode":       session.AccessCode,
		"reference":        session.Reference,
		"order":            order,
	})
}
