package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mechanicshop-backend/services"
	"mechanicshop-backend/utils"
)

type MechanicController struct {
	Mechanics *services.MechanicService
}

func (ctl *MechanicController) Create(c *gin.Context) {
	var input services.CreateMechanicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	mechanic, err := ctl.Mechanics.Create(c.Request.Context(), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mechanic)
}

func (ctl *MechanicController) List(c *gin.Context) {
	mechanics, err := ctl.Mechanics.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, mechanics)
}

func (ctl *MechanicController) Get(c *gin.Context) {
	mechanic, err := ctl.Mechanics.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, mechanic)
}

func (ctl *MechanicController) Update(c *gin.Context) {
	var input services.UpdateMechanicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	mechanic, err := ctl.Mechanics.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, mechanic)
}

func (ctl *MechanicController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.Mechanics.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mechanic " + id + " deleted successfully"})
}
