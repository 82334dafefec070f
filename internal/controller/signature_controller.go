package controller

import (
	"errors"
	"net/http"

	"sigscope/internal/errs"
	sigmodel "sigscope/internal/model/signature"
	"sigscope/internal/service/signature"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SignatureController struct {
	resolver *signature.Resolver
	registry *signature.Registry
	logger   *zap.Logger
}

func NewSignatureController(svc *signature.Service, logger *zap.Logger) *SignatureController {
	return &SignatureController{
		resolver: svc.Resolver,
		registry: svc.Registry,
		logger:   logger,
	}
}

type ResolveSignatureRequest struct {
	Source   string  `json:"source" binding:"required"`
	Name     string  `json:"name,omitempty"`
	Override *string `json:"override,omitempty"`
}

type RegisterCallableRequest struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source" binding:"required"`
}

type OverrideRequest struct {
	Signature string `json:"signature" binding:"required"`
}

type SignatureResponse struct {
	ID        string `json:"id,omitempty"`
	Signature string `json:"signature"`
}

// ResolveSignature resolves a one-off callable without registering it
func (sc *SignatureController) ResolveSignature(c *gin.Context) {
	var request ResolveSignatureRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sc.badRequest(c, err)
		return
	}

	fn := &sigmodel.Function{FuncName: request.Name, Text: request.Source, Override: request.Override}
	sig := sc.resolver.Resolve(fn)

	sc.logger.Debug("Resolved signature", zap.String("signature", sig))
	c.JSON(http.StatusOK, SignatureResponse{Signature: sig})
}

func (sc *SignatureController) RegisterCallable(c *gin.Context) {
	var request RegisterCallableRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sc.badRequest(c, err)
		return
	}

	id, err := sc.registry.Register(request.Name, request.Source)
	if err != nil {
		sc.fail(c, "Failed to register callable", err)
		return
	}
	sig, err := sc.registry.Signature(id)
	if err != nil {
		sc.fail(c, "Failed to resolve signature", err)
		return
	}

	sc.logger.Info("Registered callable", zap.String("id", id), zap.String("name", request.Name))
	c.JSON(http.StatusCreated, SignatureResponse{ID: id, Signature: sig})
}

func (sc *SignatureController) ListCallables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"callables": sc.registry.List(),
	})
}

func (sc *SignatureController) GetSignature(c *gin.Context) {
	id := c.Param("id")
	sig, err := sc.registry.Signature(id)
	if err != nil {
		sc.fail(c, "Failed to resolve signature", err)
		return
	}
	c.JSON(http.StatusOK, SignatureResponse{ID: id, Signature: sig})
}

func (sc *SignatureController) SetOverride(c *gin.Context) {
	var request OverrideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sc.badRequest(c, err)
		return
	}

	id := c.Param("id")
	if err := sc.registry.SetOverride(id, request.Signature); err != nil {
		sc.fail(c, "Failed to set override", err)
		return
	}
	c.JSON(http.StatusOK, SignatureResponse{ID: id, Signature: request.Signature})
}

func (sc *SignatureController) ClearOverride(c *gin.Context) {
	id := c.Param("id")
	if err := sc.registry.ClearOverride(id); err != nil {
		sc.fail(c, "Failed to clear override", err)
		return
	}
	sig, err := sc.registry.Signature(id)
	if err != nil {
		sc.fail(c, "Failed to resolve signature", err)
		return
	}
	c.JSON(http.StatusOK, SignatureResponse{ID: id, Signature: sig})
}

func (sc *SignatureController) RemoveCallable(c *gin.Context) {
	if err := sc.registry.Remove(c.Param("id")); err != nil {
		sc.fail(c, "Failed to remove callable", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (sc *SignatureController) badRequest(c *gin.Context, err error) {
	sc.logger.Error("Invalid request payload", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request payload",
		"details": err.Error(),
	})
}

func (sc *SignatureController) fail(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	var objErr *errs.InvalidObjectError
	var pathErr *errs.InvalidPathError
	switch {
	case errors.Is(err, signature.ErrCallableNotFound):
		status = http.StatusNotFound
	case errors.As(err, &objErr), errors.As(err, &pathErr):
		status = http.StatusBadRequest
	}

	sc.logger.Error(message, zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
