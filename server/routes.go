package server

import (
	"fmt"
	"net/http"

	deployer "github.com/cordialsys/resource-deployer"
	"github.com/cordialsys/resource-deployer/chain/aptos"
	"github.com/cordialsys/resource-deployer/publish"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PublishRequest struct {
	Module string `json:"module" binding:"required"`
	Wallet string `json:"wallet"`
	Seed   string `json:"seed"`
}

type AddressResponse struct {
	Owner   aptos.AccountAddress `json:"owner"`
	Seed    string               `json:"seed"`
	Address aptos.AccountAddress `json:"address"`
}

func (s *Server) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, fmt.Sprintf("Welcome to use %s", ServerName))
}

func (s *Server) publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid publish request: %v", err))
		return
	}
	prepared, err := s.Pipeline.Prepare(c.Request.Context(), req.Module, deployer.Address(req.Wallet), deployer.Seed(req.Seed))
	if err != nil {
		logrus.WithError(err).WithField("module", req.Module).Warn("could not prepare publish payload")
		recordPublish(outcome(err), 0)
		abortWithError(c, HttpStatus(err), err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"deployer":  prepared.Owner.String(),
		"punkninja": prepared.Derived.String(),
		"seed":      prepared.Seed.String(),
	}).Info("built publish payload")
	recordPublish("ok", prepared.Payload.Size())
	c.JSON(http.StatusOK, prepared.Payload.JSON())
}

func (s *Server) address(c *gin.Context) {
	wallet := c.Query("wallet")
	seed := c.Query("seed")
	owner, derived, err := publish.Derive(deployer.Address(wallet), deployer.Seed(seed))
	if err != nil {
		abortWithError(c, HttpStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, AddressResponse{
		Owner:   owner,
		Seed:    seed,
		Address: derived,
	})
}

func outcome(err error) string {
	resp := NewErrorResponse(err)
	if resp.Status == "" {
		return "error"
	}
	return string(resp.Status)
}
