package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/internal/presentation/http/dto/request"
	"github.com/medilink/hms-api/internal/presentation/http/dto/response"
	"github.com/medilink/hms-api/pkg/money"
	"github.com/medilink/hms-api/pkg/pagination"
)

// AccountHandler handles chart-of-accounts HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
	voucherService *service.VoucherService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService, voucherService *service.VoucherService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		voucherService: voucherService,
	}
}

// Create handles account creation
// @Summary Create account
// @Tags accounts
// @Security BearerAuth
// @Param request body request.CreateAccountRequest true "Account data"
// @Success 201 {object} response.APIResponse
// @Router /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req request.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	opening, err := ParseRupees(req.OpeningBalance)
	if err != nil {
		response.Error(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), &service.CreateAccountInput{
		Code:               req.Code,
		Name:               req.Name,
		Type:               req.Type,
		OpeningBalance:     opening,
		OpeningBalanceSide: req.OpeningBalanceSide,
		ExternalKey:        req.ExternalKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Account created successfully", account)
}

// List handles listing accounts
// @Summary List accounts
// @Tags accounts
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	params := &repository.AccountFilterParams{
		Pagination: bindPagination(c),
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active_only") == "true",
	}
	if t := c.Query("type"); t != "" {
		var accountType enum.AccountType
		if err := accountType.UnmarshalJSON([]byte(strconv.Quote(t))); err == nil {
			params.Type = &accountType
		}
	}

	result, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Accounts retrieved successfully", result)
}

// Get handles retrieving a single account
// @Summary Get account
// @Tags accounts
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} response.APIResponse
// @Router /accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account retrieved successfully", account)
}

// Update handles updating an account
// @Summary Update account
// @Tags accounts
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body request.UpdateAccountRequest true "Account data"
// @Success 200 {object} response.APIResponse
// @Router /accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), id, &service.UpdateAccountInput{
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account updated successfully", account)
}

// Deactivate handles deactivating an account
// @Summary Deactivate account
// @Tags accounts
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} response.APIResponse
// @Router /accounts/{id}/deactivate [post]
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	account, err := h.accountService.DeactivateAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account deactivated successfully", account)
}

// Activate handles re-activating an account
// @Summary Activate account
// @Tags accounts
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} response.APIResponse
// @Router /accounts/{id}/activate [post]
func (h *AccountHandler) Activate(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	account, err := h.accountService.ActivateAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account activated successfully", account)
}

// Balance handles computing an account's balance
// @Summary Account balance
// @Description Derive the account balance from posted voucher entries
// @Tags accounts
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param as_of query string false "As-of date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /accounts/{id}/balance [get]
func (h *AccountHandler) Balance(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var asOf *time.Time
	if s := c.Query("as_of"); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			response.Error(c, err)
			return
		}
		asOf = &t
	}

	balance, err := h.voucherService.GetAccountBalance(c.Request.Context(), id, asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account balance retrieved successfully", gin.H{
		"account_id": balance.AccountID,
		"code":       balance.Code,
		"name":       balance.Name,
		"amount":     money.FormatRupees(balance.Amount),
		"side":       balance.Side,
		"as_of":      balance.AsOf,
	})
}

// bindPagination reads page/per_page query parameters
func bindPagination(c *gin.Context) *pagination.PaginationParams {
	params := pagination.DefaultPagination()
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil {
		params.PerPage = perPage
	}
	params.Validate()
	return params
}
