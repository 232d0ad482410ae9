package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	appcustomer "github.com/erp/customers/internal/application/customer"
	"github.com/erp/customers/internal/domain/customer"
	"github.com/erp/customers/internal/domain/shared"
	"github.com/erp/customers/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles the customer resource endpoints
type CustomerHandler struct {
	BaseHandler
	service  *appcustomer.Service
	basePath string
}

// NewCustomerHandler creates a new CustomerHandler. basePath is the prefix
// the routes are mounted under and is used to build Location headers.
func NewCustomerHandler(service *appcustomer.Service, basePath string) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		basePath: basePath,
	}
}

// CollectionPath returns the path of the customer collection
func (h *CustomerHandler) CollectionPath() string {
	return h.basePath + "/customers"
}

func (h *CustomerHandler) resourcePath(id int64) string {
	return h.CollectionPath() + "/" + strconv.FormatInt(id, 10)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Returns all customers, or those matching one filter. Only the first supplied filter applies, in the order customer, name, email, address, active.
// @Tags         customers
// @Produce      json
// @Param        customer query string false "Customer id"
// @Param        name     query string false "Exact name"
// @Param        email    query string false "Exact email"
// @Param        address  query string false "Exact address"
// @Param        active   query string false "true (any case) for active customers, anything else for inactive"
// @Success      200 {array}  CustomerResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter appcustomer.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return
	}

	customers, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	results := make([]map[string]any, 0, len(customers))
	for i := range customers {
		results = append(results, customers[i].Serialize())
	}
	c.JSON(http.StatusOK, results)
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Description  Stores a new customer. Any id in the body is ignored.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body CustomerRequest true "Customer attributes"
// @Success      201 {object} CustomerResponse
// @Header       201 {string} Location "URL of the new customer"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      415 {object} dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}

	created, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Location", absoluteURL(c, h.resourcePath(created.ID)))
	c.JSON(http.StatusCreated, created.Serialize())
}

// Get godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer id"
// @Success      200 {object} CustomerResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, found.Serialize())
}

// Update godoc
// @ID           updateCustomer
// @Summary      Replace a customer
// @Description  Overwrites the customer's attributes. The id in the path wins over any id in the body.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id      path int             true "Customer id"
// @Param        request body CustomerRequest true "Customer attributes"
// @Success      200 {object} CustomerResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      415 {object} dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	// An unknown id answers 404 even when the body cannot be decoded
	payload, decodeErr := decodePayload(c)
	if decodeErr != nil {
		if _, err := h.service.Get(c.Request.Context(), id); err != nil {
			h.handleError(c, id, err)
			return
		}
		h.writeBindError(c, decodeErr)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, payload)
	if err != nil {
		h.handleError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, updated.Serialize())
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Description  Removes the customer. Deleting an unknown id also answers 204.
// @Tags         customers
// @Param        id path int true "Customer id"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Activate godoc
// @ID           activateCustomer
// @Summary      Activate a customer
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer id"
// @Success      200 {object} CustomerResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/customers/{id}/activate [put]
// @Router       /api/customers/{id}/activate [patch]
func (h *CustomerHandler) Activate(c *gin.Context) {
	h.setActive(c, h.service.Activate)
}

// Deactivate godoc
// @ID           deactivateCustomer
// @Summary      Deactivate a customer
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer id"
// @Success      200 {object} CustomerResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/customers/{id}/deactivate [put]
// @Router       /api/customers/{id}/deactivate [patch]
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	h.setActive(c, h.service.Deactivate)
}

func (h *CustomerHandler) setActive(c *gin.Context, apply func(ctx context.Context, id int64) (*customer.Customer, error)) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	changed, err := apply(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, changed.Serialize())
}

// parseID reads the :id path parameter. Anything that is not an integer
// cannot name a customer, so it is answered like an unknown id.
func (h *CustomerHandler) parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.NotFound(c, notFoundMessage(raw))
		return 0, false
	}
	return id, true
}

func (h *CustomerHandler) handleError(c *gin.Context, id int64, err error) {
	if shared.IsNotFound(err) {
		h.NotFound(c, notFoundMessage(strconv.FormatInt(id, 10)))
		return
	}
	h.HandleDomainError(c, err)
}

func notFoundMessage(id string) string {
	return fmt.Sprintf("Customer with id '%s' was not found.", id)
}
