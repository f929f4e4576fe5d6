package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/auth"
	"github.com/Dan9191/bank-cards/internal/handler/mocks"
	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/service"
)

type HandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	cards  *mocks.MockCardService
	admin  *mocks.MockAdminService
	auth   *mocks.MockAuthService
	tokens *auth.TokenIssuer
	router *mux.Router

	user      *models.User
	adminUser *models.User
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.cards = mocks.NewMockCardService(s.ctrl)
	s.admin = mocks.NewMockAdminService(s.ctrl)
	s.auth = mocks.NewMockAuthService(s.ctrl)
	s.tokens = auth.NewTokenIssuer("handler-test-secret", time.Hour)

	log := logrus.New()
	log.SetOutput(io.Discard)

	s.router = mux.NewRouter()
	NewHandler(s.cards, s.admin, s.auth, log).Routes(s.router, s.tokens)

	s.user = &models.User{ID: uuid.New(), Username: "alice", Roles: []models.Role{models.RoleUser}, Enabled: true}
	s.adminUser = &models.User{ID: uuid.New(), Username: "admin", Roles: []models.Role{models.RoleUser, models.RoleAdmin}, Enabled: true}
}

func (s *HandlerSuite) bearer(u *models.User) string {
	token, _, err := s.tokens.Issue(u)
	s.Require().NoError(err)
	return "Bearer " + token
}

func (s *HandlerSuite) do(method, path, body string, as *models.User) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", s.bearer(as))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sampleView(owner uuid.UUID) *models.CardView {
	return &models.CardView{
		ID:           uuid.New(),
		MaskedNumber: "**** **** **** 3456",
		Expiration:   models.YearMonth{Year: 2028, Month: time.December},
		Status:       models.CardStatusActive,
		Balance:      decimal.RequireFromString("1000"),
		OwnerID:      owner,
		Active:       true,
	}
}

func (s *HandlerSuite) TestAuthRequired() {
	rec := s.do(http.MethodGet, "/api/cards/my", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	body := decodeBody[middleware.ErrorResponse](s.T(), rec)
	s.Equal("Authorization header required", body.Message)
	s.Equal("/api/cards/my", body.Path)

	req := httptest.NewRequest(http.MethodGet, "/api/cards/my", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestAdminRoutesRequireAdminRole() {
	rec := s.do(http.MethodGet, "/api/admin/cards", "", s.user)
	s.Equal(http.StatusForbidden, rec.Code)

	s.admin.EXPECT().ListCards(gomock.Any(), models.Page{Number: 0, Size: models.DefaultPageSize}).
		Return(&models.PageResult[*models.CardView]{Page: models.Page{Size: models.DefaultPageSize}}, nil)
	rec = s.do(http.MethodGet, "/api/admin/cards", "", s.adminUser)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestListMyCards() {
	view := sampleView(s.user.ID)
	s.cards.EXPECT().ListMyCards(gomock.Any(), s.user.ID, models.Page{Number: 1, Size: 5}).
		Return(&models.PageResult[*models.CardView]{Items: []*models.CardView{view}, Total: 6, Page: models.Page{Number: 1, Size: 5}}, nil)

	rec := s.do(http.MethodGet, "/api/cards/my?page=1&size=5", "", s.user)
	s.Require().Equal(http.StatusOK, rec.Code)

	body := decodeBody[PagedResponse[CardResponse]](s.T(), rec)
	s.Require().Len(body.Content, 1)
	s.Equal(view.ID, body.Content[0].ID)
	s.Equal("**** **** **** 3456", body.Content[0].MaskedCardNumber)
	s.Equal("2028-12", body.Content[0].ExpirationDate)
	s.Equal("ACTIVE", body.Content[0].Status)
	s.Equal(json.Number("1000.00"), body.Content[0].Balance)
	s.Equal(6, body.TotalElements)
	s.Equal(2, body.TotalPages)
	s.True(body.IsLast)
}

func (s *HandlerSuite) TestInvalidPaging() {
	s.cards.EXPECT().ListMyCards(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.admin.EXPECT().ListUsers(gomock.Any(), gomock.Any()).Times(0)

	for _, path := range []string{
		"/api/cards/my?page=-1",
		"/api/cards/my?page=184467440737095516&size=100",
		"/api/cards/my?page=99999999999999999999",
	} {
		rec := s.do(http.MethodGet, path, "", s.user)
		s.Equal(http.StatusBadRequest, rec.Code, path)
		s.Contains(decodeBody[middleware.ErrorResponse](s.T(), rec).ValidationErrors, "page", path)
	}

	rec := s.do(http.MethodGet, "/api/admin/users?page=184467440737095516", "", s.adminUser)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestLastAllowedPage() {
	want := models.Page{Number: models.MaxPageNumber, Size: models.MaxPageSize}
	s.cards.EXPECT().ListMyCards(gomock.Any(), s.user.ID, want).
		Return(&models.PageResult[*models.CardView]{Total: 1, Page: want}, nil)

	rec := s.do(http.MethodGet, fmt.Sprintf("/api/cards/my?page=%d&size=%d", models.MaxPageNumber, models.MaxPageSize), "", s.user)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestGetMyCard() {
	view := sampleView(s.user.ID)
	s.cards.EXPECT().GetMyCard(gomock.Any(), s.user.ID, view.ID).Return(view, nil)

	rec := s.do(http.MethodGet, "/api/cards/my/"+view.ID.String(), "", s.user)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "owner")
	s.Equal(view.ID, decodeBody[CardResponse](s.T(), rec).ID)
}

func (s *HandlerSuite) TestGetMyCardNotFound() {
	id := uuid.New()
	s.cards.EXPECT().GetMyCard(gomock.Any(), s.user.ID, id).Return(nil, apperror.NotFound("Card", id))

	rec := s.do(http.MethodGet, "/api/cards/my/"+id.String(), "", s.user)
	s.Equal(http.StatusNotFound, rec.Code)
	body := decodeBody[middleware.ErrorResponse](s.T(), rec)
	s.Equal("Not Found", body.Error)
	s.Contains(body.Message, id.String())
}

func (s *HandlerSuite) TestMalformedCardID() {
	rec := s.do(http.MethodGet, "/api/cards/my/not-a-uuid/balance", "", s.user)
	s.Equal(http.StatusBadRequest, rec.Code)
	body := decodeBody[middleware.ErrorResponse](s.T(), rec)
	s.Contains(body.ValidationErrors, "cardId")
}

func (s *HandlerSuite) TestGetMyBalance() {
	id := uuid.New()
	s.cards.EXPECT().GetMyBalance(gomock.Any(), s.user.ID, id).Return(decimal.RequireFromString("12.5"), nil)

	rec := s.do(http.MethodGet, "/api/cards/my/"+id.String()+"/balance", "", s.user)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"cardId":"`+id.String()+`","balance":12.50}`, rec.Body.String())
}

func (s *HandlerSuite) TestRequestBlock() {
	view := sampleView(s.user.ID)
	view.Status = models.CardStatusBlockRequested
	s.cards.EXPECT().RequestBlock(gomock.Any(), s.user.ID, view.ID).Return(view, nil)

	rec := s.do(http.MethodPost, "/api/cards/my/"+view.ID.String()+"/block-request", "", s.user)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("BLOCK_REQUESTED", decodeBody[CardResponse](s.T(), rec).Status)
}

func (s *HandlerSuite) TestRequestBlockInvalidTransition() {
	id := uuid.New()
	s.cards.EXPECT().RequestBlock(gomock.Any(), s.user.ID, id).
		Return(nil, apperror.InvalidTransition("request block", id, models.CardStatusBlocked, []models.CardStatus{models.CardStatusActive}))

	rec := s.do(http.MethodPost, "/api/cards/my/"+id.String()+"/block-request", "", s.user)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(decodeBody[middleware.ErrorResponse](s.T(), rec).Message, "BLOCKED")
}

func (s *HandlerSuite) TestTransfer() {
	from, to := uuid.New(), uuid.New()
	amount := decimal.RequireFromString("25.00")
	s.cards.EXPECT().Transfer(gomock.Any(), s.user.ID, from, to, gomock.Any()).
		DoAndReturn(func(_ any, _, _, _ uuid.UUID, got decimal.Decimal) error {
			assert.True(s.T(), amount.Equal(got))
			return nil
		})

	body := `{"fromCardId":"` + from.String() + `","toCardId":"` + to.String() + `","amount":25.00}`
	rec := s.do(http.MethodPost, "/api/cards/my/transfer", body, s.user)
	s.Equal(http.StatusNoContent, rec.Code)
	s.Empty(rec.Body.String())
}

func (s *HandlerSuite) TestTransferErrors() {
	from, to := uuid.New(), uuid.New()
	body := `{"fromCardId":"` + from.String() + `","toCardId":"` + to.String() + `","amount":"5000"}`

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"insufficient funds", apperror.InsufficientFunds(from, decimal.RequireFromString("5000"), decimal.RequireFromString("1000")), http.StatusBadRequest},
		{"foreign card", apperror.New(apperror.KindUnauthorized, "Card does not belong to you"), http.StatusForbidden},
		{"lock timeout", apperror.New(apperror.KindTimeout, "Card is busy"), http.StatusServiceUnavailable},
		{"unexpected", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.cards.EXPECT().Transfer(gomock.Any(), s.user.ID, from, to, gomock.Any()).Return(tc.err)
			rec := s.do(http.MethodPost, "/api/cards/my/transfer", body, s.user)
			s.Equal(tc.status, rec.Code)
			if tc.status == http.StatusInternalServerError {
				s.NotContains(rec.Body.String(), io.ErrUnexpectedEOF.Error())
			}
		})
	}
}

func (s *HandlerSuite) TestTransferRejectsBadBody() {
	s.cards.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	rec := s.do(http.MethodPost, "/api/cards/my/transfer", "{bad-json", s.user)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/cards/my/transfer", `{"amount":10,"extra":true}`, s.user)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/cards/my/transfer", `{"amount":10}`, s.user)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	body := decodeBody[middleware.ErrorResponse](s.T(), rec)
	s.Contains(body.ValidationErrors, "fromCardId")
	s.Contains(body.ValidationErrors, "toCardId")
}

func (s *HandlerSuite) TestCreateCard() {
	owner := uuid.New()
	view := sampleView(owner)
	s.admin.EXPECT().CreateCard(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, cmd service.CreateCardCommand) (*models.CardView, error) {
			assert.Equal(s.T(), owner, cmd.OwnerID)
			assert.Equal(s.T(), "1234567890123456", cmd.CardNumber)
			assert.Equal(s.T(), models.YearMonth{Year: 2028, Month: time.December}, cmd.Expiration)
			require.NotNil(s.T(), cmd.InitialBalance)
			assert.Equal(s.T(), "1000", cmd.InitialBalance.String())
			return view, nil
		})

	body := `{"ownerId":"` + owner.String() + `","cardNumber":"1234567890123456","expirationDate":"2028-12","initialBalance":1000}`
	rec := s.do(http.MethodPost, "/api/admin/cards", body, s.adminUser)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.NotContains(rec.Body.String(), "1234567890123456")
	s.Equal(view.ID, decodeBody[CardResponse](s.T(), rec).ID)
}

func (s *HandlerSuite) TestCreateCardValidation() {
	s.admin.EXPECT().CreateCard(gomock.Any(), gomock.Any()).Times(0)
	owner := uuid.New().String()

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"short number", `{"ownerId":"` + owner + `","cardNumber":"1234","expirationDate":"2028-12"}`, "cardNumber"},
		{"letters in number", `{"ownerId":"` + owner + `","cardNumber":"12345678901234ab","expirationDate":"2028-12"}`, "cardNumber"},
		{"missing expiration", `{"ownerId":"` + owner + `","cardNumber":"1234567890123456"}`, "expirationDate"},
		{"missing owner", `{"cardNumber":"1234567890123456","expirationDate":"2028-12"}`, "ownerId"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec := s.do(http.MethodPost, "/api/admin/cards", tc.body, s.adminUser)
			s.Require().Equal(http.StatusBadRequest, rec.Code)
			s.Contains(decodeBody[middleware.ErrorResponse](s.T(), rec).ValidationErrors, tc.field)
		})
	}
}

func (s *HandlerSuite) TestCreateCardConflict() {
	s.admin.EXPECT().CreateCard(gomock.Any(), gomock.Any()).
		Return(nil, apperror.New(apperror.KindConflict, "Card number already exists"))

	body := `{"ownerId":"` + uuid.New().String() + `","cardNumber":"1234567890123456","expirationDate":"2028-12"}`
	rec := s.do(http.MethodPost, "/api/admin/cards", body, s.adminUser)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestListCardsByStatus() {
	s.admin.EXPECT().ListCardsByStatus(gomock.Any(), models.CardStatusBlockRequested, gomock.Any()).
		Return(&models.PageResult[*models.CardView]{Page: models.Page{Size: 10}}, nil)

	rec := s.do(http.MethodGet, "/api/admin/cards/status/BLOCK_REQUESTED", "", s.adminUser)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"content":[],"page_number":0,"page_size":10,"total_elements":0,"total_pages":0,"is_last":true}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/admin/cards/status/FROZEN", "", s.adminUser)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCardActions() {
	id := uuid.New()
	view := sampleView(uuid.New())
	view.ID = id

	s.admin.EXPECT().ActivateCard(gomock.Any(), id).Return(view, nil)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/admin/cards/"+id.String()+"/activate", "", s.adminUser).Code)

	view.Status = models.CardStatusBlocked
	s.admin.EXPECT().ConfirmBlock(gomock.Any(), id).Return(view, nil)
	rec := s.do(http.MethodPost, "/api/admin/cards/"+id.String()+"/block/confirm", "", s.adminUser)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("BLOCKED", decodeBody[CardResponse](s.T(), rec).Status)

	s.admin.EXPECT().DeclineBlock(gomock.Any(), id).
		Return(nil, apperror.InvalidTransition("decline block", id, models.CardStatusBlocked, []models.CardStatus{models.CardStatusBlockRequested}))
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/admin/cards/"+id.String()+"/block/decline", "", s.adminUser).Code)

	s.admin.EXPECT().DeleteCard(gomock.Any(), id).Return(nil)
	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/admin/cards/"+id.String(), "", s.adminUser).Code)
}

func (s *HandlerSuite) TestActivateExpired() {
	id := uuid.New()
	s.admin.EXPECT().ActivateCard(gomock.Any(), id).
		Return(nil, apperror.New(apperror.KindInvalidOperation, "Operation failed because the card is expired."))

	rec := s.do(http.MethodPost, "/api/admin/cards/"+id.String()+"/activate", "", s.adminUser)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Operation failed because the card is expired.", decodeBody[middleware.ErrorResponse](s.T(), rec).Message)
}

func (s *HandlerSuite) TestUsers() {
	target := &models.User{ID: uuid.New(), Username: "bob", Roles: []models.Role{models.RoleUser}, Enabled: true}

	s.admin.EXPECT().ListUsers(gomock.Any(), gomock.Any()).
		Return(&models.PageResult[*models.User]{Items: []*models.User{target}, Total: 1, Page: models.Page{Size: 10}}, nil)
	rec := s.do(http.MethodGet, "/api/admin/users", "", s.adminUser)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "password")
	s.Equal("bob", decodeBody[PagedResponse[UserResponse]](s.T(), rec).Content[0].Username)

	s.admin.EXPECT().GetUser(gomock.Any(), target.ID).Return(target, nil)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/admin/users/"+target.ID.String(), "", s.adminUser).Code)

	s.admin.EXPECT().ListUserCards(gomock.Any(), target.ID, gomock.Any()).
		Return(&models.PageResult[*models.CardView]{Page: models.Page{Size: 10}}, nil)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/admin/users/"+target.ID.String()+"/cards", "", s.adminUser).Code)

	promoted := *target
	promoted.Roles = []models.Role{models.RoleUser, models.RoleAdmin}
	s.admin.EXPECT().UpdateRoles(gomock.Any(), target.ID, []models.Role{models.RoleUser, models.RoleAdmin}).Return(&promoted, nil)
	rec = s.do(http.MethodPut, "/api/admin/users/"+target.ID.String()+"/roles", `{"roles":["USER","ADMIN"]}`, s.adminUser)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal([]string{"USER", "ADMIN"}, decodeBody[UserResponse](s.T(), rec).Roles)

	locked := *target
	locked.Enabled = false
	s.admin.EXPECT().LockUser(gomock.Any(), target.ID).Return(&locked, nil)
	rec = s.do(http.MethodPost, "/api/admin/users/"+target.ID.String()+"/lock", "", s.adminUser)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.False(decodeBody[UserResponse](s.T(), rec).Enabled)

	s.admin.EXPECT().UnlockUser(gomock.Any(), target.ID).Return(target, nil)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/admin/users/"+target.ID.String()+"/unlock", "", s.adminUser).Code)
}

func (s *HandlerSuite) TestUpdateRolesValidation() {
	s.admin.EXPECT().UpdateRoles(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	id := uuid.New().String()

	rec := s.do(http.MethodPut, "/api/admin/users/"+id+"/roles", `{"roles":[]}`, s.adminUser)
	s.Equal(http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPut, "/api/admin/users/"+id+"/roles", `{"roles":["ROOT"]}`, s.adminUser)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestRegister() {
	s.auth.EXPECT().Register(gomock.Any(), "carol", "secret-pass").Return(s.user, nil)
	rec := s.do(http.MethodPost, "/api/auth/register", `{"username":"carol","password":"secret-pass"}`, nil)
	s.Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/register", `{"username":"ca","password":"123"}`, nil)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	body := decodeBody[middleware.ErrorResponse](s.T(), rec)
	s.Contains(body.ValidationErrors, "username")
	s.Contains(body.ValidationErrors, "password")
}

func (s *HandlerSuite) TestLoginAndRefresh() {
	pair := &service.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour), User: s.user}

	s.auth.EXPECT().Login(gomock.Any(), "alice", "password").Return(pair, nil)
	rec := s.do(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"password"}`, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	jwtResp := decodeBody[JwtResponse](s.T(), rec)
	s.Equal("access", jwtResp.AccessToken)
	s.Equal("Bearer", jwtResp.TokenType)
	s.Equal([]string{"USER"}, jwtResp.Roles)

	s.auth.EXPECT().Login(gomock.Any(), "alice", "wrong").
		Return(nil, apperror.New(apperror.KindUnauthenticated, "Invalid username or password"))
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong"}`, nil).Code)

	s.auth.EXPECT().Refresh(gomock.Any(), "refresh").Return(pair, nil)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/auth/refresh", `{"refreshToken":"refresh"}`, nil).Code)
}

func (s *HandlerSuite) TestLogout() {
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/logout", "", nil).Code)

	s.auth.EXPECT().Logout(gomock.Any(), s.user.ID).Return(nil)
	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/api/auth/logout", "", s.user).Code)
}
