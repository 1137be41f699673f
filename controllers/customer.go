package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mechanicshop-backend/services"
	"mechanicshop-backend/utils"
)

// LoginInput defines the expected JSON structure for customer login
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CustomerController struct {
	Customers *services.CustomerService
	Tickets   *services.TicketService
}

// Register creates a new customer account
func (ctl *CustomerController) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := ctl.Customers.Register(c.Request.Context(), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// Login authenticates a customer and returns a bearer token
func (ctl *CustomerController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	token, customer, err := ctl.Customers.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"token":    token,
		"customer": customer,
	})
}

// List returns all customers
func (ctl *CustomerController) List(c *gin.Context) {
	customers, err := ctl.Customers.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Get returns a single customer by id
func (ctl *CustomerController) Get(c *gin.Context) {
	customer, err := ctl.Customers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Update modifies the authenticated customer's own profile
func (ctl *CustomerController) Update(c *gin.Context) {
	callerID := c.GetString(utils.ContextCustomerID)

	var input services.UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := ctl.Customers.Update(c.Request.Context(), callerID, c.Param("id"), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Delete removes the authenticated customer's own account along with
// their service tickets
func (ctl *CustomerController) Delete(c *gin.Context) {
	callerID := c.GetString(utils.ContextCustomerID)
	id := c.Param("id")

	if err := ctl.Customers.Delete(c.Request.Context(), callerID, id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer " + id + " deleted successfully"})
}

// MyTickets returns the authenticated customer's service tickets
func (ctl *CustomerController) MyTickets(c *gin.Context) {
	callerID := c.GetString(utils.ContextCustomerID)

	tickets, err := ctl.Tickets.ListMine(c.Request.Context(), callerID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}
