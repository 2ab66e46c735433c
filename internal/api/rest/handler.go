package rest

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/lilianna-roll/issuance/internal/api/middleware"
	"github.com/lilianna-roll/issuance/internal/api/shared/constants"
	"github.com/lilianna-roll/issuance/internal/api/shared/dto"
	"github.com/lilianna-roll/issuance/internal/api/shared/executor"
	"github.com/lilianna-roll/issuance/internal/domain"
	"github.com/lilianna-roll/issuance/internal/engine"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetContract returns the contract URI, principals and total supply
	// GET /api/v1/contract
	GetContract(c *gin.Context)

	// SetContractURI updates the contract-level metadata URI (administrative)
	// PUT /api/v1/contract/uri
	SetContractURI(c *gin.Context)

	// GetCollection returns a collection; unconfigured ids report zero values
	// GET /api/v1/collections/:id
	GetCollection(c *gin.Context)

	// MakeCollection registers size, offer and URI policy (administrative)
	// POST /api/v1/collections
	MakeCollection(c *gin.Context)

	// FixCollectionSize sets the capacity of a collection once (administrative)
	// PUT /api/v1/collections/:id/size
	FixCollectionSize(c *gin.Context)

	// MakeCollectionOffer sets the price of the paid mint paths (administrative)
	// PUT /api/v1/collections/:id/offer
	MakeCollectionOffer(c *gin.Context)

	// SetCollectionBaseURI switches the collection to sequential URIs (administrative)
	// PUT /api/v1/collections/:id/base-uri
	SetCollectionBaseURI(c *gin.Context)

	// SetCollectionFixedURI switches the collection to a fixed URI (administrative)
	// PUT /api/v1/collections/:id/fixed-uri
	SetCollectionFixedURI(c *gin.Context)

	// Mint issues a token to the recipient (administrative)
	// POST /api/v1/collections/:id/mint
	Mint(c *gin.Context)

	// Buy issues a token against payment, to the caller or the recipient
	// POST /api/v1/collections/:id/buy
	Buy(c *gin.Context)

	// Authorize issues a token against an issuer voucher, to the caller or the recipient
	// POST /api/v1/collections/:id/authorize
	Authorize(c *gin.Context)

	// GetToken returns the owner, collection, index and URI of a token
	// GET /api/v1/tokens/:id
	GetToken(c *gin.Context)

	// GetTreasury returns the treasury balance (administrative)
	// GET /api/v1/treasury
	GetTreasury(c *gin.Context)

	// Withdraw moves the treasury balance to the administrative principal
	// POST /api/v1/treasury/withdraw
	Withdraw(c *gin.Context)

	// GetEvents lists committed events after a cursor
	// GET /api/v1/events?since=<cursor>&type=<type1>,<type2>&limit=<limit>
	GetEvents(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// collectionID parses the :id path parameter
func collectionID(c *gin.Context) (domain.CollectionID, bool) {
	id, err := domain.ParseCollectionID(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid collection id", c.Param("id"))
		return 0, false
	}
	return id, true
}

// caller returns the authenticated principal
func caller(c *gin.Context) (common.Address, bool) {
	addr, ok := middleware.Caller(c)
	if !ok {
		respondUnauthorized(c)
		return common.Address{}, false
	}
	return addr, true
}

// bind decodes and validates the JSON request body
func bind(c *gin.Context, req interface{ Validate() error }) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// GetContract returns the contract-level information
func (h *handler) GetContract(c *gin.Context) {
	c.JSON(http.StatusOK, h.executor.GetContract(c.Request.Context()))
}

// SetContractURI updates the contract-level metadata URI
func (h *handler) SetContractURI(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}

	var req dto.SetURIRequest
	if !bind(c, &req) {
		return
	}

	response, err := h.executor.SetContractURI(c.Request.Context(), from, *req.URI)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCollection retrieves a single collection by id
func (h *handler) GetCollection(c *gin.Context) {
	id, ok := collectionID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.executor.GetCollection(c.Request.Context(), id))
}

// MakeCollection registers a collection in one operation
func (h *handler) MakeCollection(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}

	var req dto.MakeCollectionRequest
	if !bind(c, &req) {
		return
	}

	response, err := h.executor.MakeCollection(c.Request.Context(), from, engine.MakeCollectionInput{
		ID:       domain.CollectionID(req.ID),
		Size:     req.Size,
		Price:    req.Price(),
		URI:      req.URI,
		FixedURI: req.Fixed,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// FixCollectionSize sets the capacity of a collection
func (h *handler) FixCollectionSize(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := collectionID(c)
	if !ok {
		return
	}

	var req dto.SetSizeRequest
	if !bind(c, &req) {
		return
	}

	response, err := h.executor.FixCollectionSize(c.Request.Context(), from, id, *req.Size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// MakeCollectionOffer sets the price of a collection
func (h *handler) MakeCollectionOffer(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := collectionID(c)
	if !ok {
		return
	}

	var req dto.SetOfferRequest
	if !bind(c, &req) {
		return
	}

	response, err := h.executor.MakeCollectionOffer(c.Request.Context(), from, id, req.Price())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SetCollectionBaseURI sets a sequential URI policy
func (h *handler) SetCollectionBaseURI(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := collectionID(c)
	if !ok {
		return
	}

	var req dto.SetURIRequest
	if !bind(c, &req) {
		return
	}

	response, err := h.executor.SetCollectionBaseURI(c.Request.Context(), from, id, *req.URI)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SetCollectionFixedURI sets a fixed URI policy
func (h *handler) SetCollectionFixedURI(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := collectionID(c)
	if !ok {
		return
	}

	var req dto.SetURIRequest
	if !bind(c, &req) {
		return
	}

	response, err := h.executor.SetCollectionFixedURI(c.Request.Context(), from, id, *req.URI)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Mint issues a token through the administrative path
func (h *handler) Mint(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := collectionID(c)
	if !ok {
		return
	}

	var req dto.MintRequest
	if !bind(c, &req) {
		return
	}

	response, err := h.executor.Mint(c.Request.Context(), from, id, req.RecipientAddress())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Buy issues a token against payment
func (h *handler) Buy(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := collectionID(c)
	if !ok {
		return
	}

	var req dto.BuyRequest
	if !bind(c, &req) {
		return
	}

	response, err := h.executor.Buy(c.Request.Context(), from, id, req.Amount(), req.RecipientAddress())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Authorize issues a token against an issuer voucher
func (h *handler) Authorize(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := collectionID(c)
	if !ok {
		return
	}

	var req dto.AuthorizeRequest
	if !bind(c, &req) {
		return
	}

	response, err := h.executor.Authorize(c.Request.Context(), from, id, req.SignatureBytes(), req.RecipientAddress())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetToken retrieves a single token by id
func (h *handler) GetToken(c *gin.Context) {
	id, err := domain.ParseTokenID(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid token id", c.Param("id"))
		return
	}

	response, err := h.executor.GetToken(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetTreasury returns the treasury balance
func (h *handler) GetTreasury(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}

	response, err := h.executor.GetTreasury(c.Request.Context(), from)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Withdraw moves the treasury balance to the administrative principal
func (h *handler) Withdraw(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}

	response, err := h.executor.Withdraw(c.Request.Context(), from)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetEvents lists committed events with cursor pagination
func (h *handler) GetEvents(c *gin.Context) {
	queryParams, err := ParseGetEventsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := queryParams.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.GetEvents(c.Request.Context(), queryParams.Since, queryParams.EventTypes, queryParams.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	if err := h.executor.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"service": constants.SERVICE_NAME,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": constants.SERVICE_NAME,
	})
}
