package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mechanicshop-backend/services"
	"mechanicshop-backend/utils"
)

// AddPartsInput defines the expected JSON structure for the bulk
// part-addition endpoint
type AddPartsInput struct {
	PartIDs []string `json:"part_ids"`
}

type TicketController struct {
	Tickets *services.TicketService
}

func (ctl *TicketController) Create(c *gin.Context) {
	var input services.CreateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ticket, err := ctl.Tickets.Create(c.Request.Context(), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (ctl *TicketController) List(c *gin.Context) {
	tickets, err := ctl.Tickets.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (ctl *TicketController) Get(c *gin.Context) {
	ticket, err := ctl.Tickets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (ctl *TicketController) Update(c *gin.Context) {
	var input services.UpdateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ticket, err := ctl.Tickets.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (ctl *TicketController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.Tickets.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service ticket " + id + " deleted successfully"})
}

func (ctl *TicketController) AssignMechanic(c *gin.Context) {
	ticket, message, err := ctl.Tickets.AssignMechanic(c.Request.Context(), c.Param("id"), c.Param("mechanicId"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "ticket": ticket})
}

func (ctl *TicketController) RemoveMechanic(c *gin.Context) {
	ticket, message, err := ctl.Tickets.RemoveMechanic(c.Request.Context(), c.Param("id"), c.Param("mechanicId"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "ticket": ticket})
}

func (ctl *TicketController) AddPart(c *gin.Context) {
	ticket, message, err := ctl.Tickets.AddPart(c.Request.Context(), c.Param("id"), c.Param("partId"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "ticket": ticket})
}

func (ctl *TicketController) RemovePart(c *gin.Context) {
	ticket, message, err := ctl.Tickets.RemovePart(c.Request.Context(), c.Param("id"), c.Param("partId"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "ticket": ticket})
}

// AddParts adds a batch of inventory parts to a ticket; the whole call
// fails without effect when any id is unknown
func (ctl *TicketController) AddParts(c *gin.Context) {
	var input AddPartsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: part_ids must be an array of part ids")
		return
	}
	if input.PartIDs == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: part_ids must be an array of part ids")
		return
	}

	ticket, err := ctl.Tickets.AddParts(c.Request.Context(), c.Param("id"), input.PartIDs)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (ctl *TicketController) ListByCustomer(c *gin.Context) {
	tickets, err := ctl.Tickets.ListByCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (ctl *TicketController) ListByMechanic(c *gin.Context) {
	tickets, err := ctl.Tickets.ListByMechanic(c.Request.Context(), c.Param("mechanicId"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}
