package handler

// CustomerResponse documents the serialized customer
// @Description Customer as stored by the service
type CustomerResponse struct {
	ID       int64   `json:"id" example:"1"`
	Name     string  `json:"name" example:"Wang"`
	Password string  `json:"password" example:"123456"`
	Email    string  `json:"email" example:"wang@example.com"`
	Address  *string `json:"address" example:"apt 1"`
	Active   bool    `json:"active" example:"false"`
} // @name CustomerResponse

// CustomerRequest documents the body accepted by create and update.
// The body is decoded untyped, so these tags only feed the API docs.
// @Description Customer attributes; name, password and email are required
type CustomerRequest struct {
	Name     string  `json:"name" example:"Wang" maxLength:"63"`
	Password string  `json:"password" example:"123456" maxLength:"63"`
	Email    string  `json:"email" example:"wang@example.com" maxLength:"63"`
	Address  *string `json:"address" example:"apt 1" maxLength:"63"`
	Active   bool    `json:"active" example:"false"`
} // @name CustomerRequest
