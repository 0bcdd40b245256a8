package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-diamond-ledger/internal/handler"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/service"
	"go-diamond-ledger/internal/testutil"
	"go-diamond-ledger/internal/ws"
	"go-diamond-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app   *fiber.App
	party uuid.UUID
	shape uuid.UUID
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)

	refs := service.LotRefs{
		Parties:         repository.NewRegistryRepo[model.Party](db),
		Shapes:          repository.NewRegistryRepo[model.Shape](db),
		Colors:          repository.NewRegistryRepo[model.Color](db),
		Clarities:       repository.NewRegistryRepo[model.Clarity](db),
		Statuses:        repository.NewRegistryRepo[model.Status](db),
		PaymentStatuses: repository.NewRegistryRepo[model.PaymentStatus](db),
	}
	employees := repository.NewRegistryRepo[model.Employee](db)
	lotRepo := repository.NewLotRepo(db)
	attendanceRepo := repository.NewAttendanceRepo(db)

	authSvc := service.NewAuthService(repository.NewUserRepo(db), jwt.NewManager("test-secret", time.Hour))
	rateSvc := service.NewRateService(repository.NewRateRepo(db), refs.Parties, nil)

	h := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, time.Hour, false),
		Lot:         handler.NewLotHandler(service.NewLotService(lotRepo, refs, rateSvc, nil), time.UTC),
		Rate:        handler.NewRateHandler(rateSvc),
		Transaction: handler.NewTransactionHandler(service.NewTransactionService(repository.NewTransactionRepo(db), lotRepo, refs.Parties, nil)),
		Attendance:  handler.NewAttendanceHandler(service.NewAttendanceService(attendanceRepo, employees, nil)),

		Party:         handler.NewPartyHandler(service.NewPartyService(refs.Parties, lotRepo, nil)),
		Shape:         handler.NewRegistryHandler(service.NewRegistryService[model.Shape](refs.Shapes, "Shape", nil)),
		Color:         handler.NewRegistryHandler(service.NewRegistryService[model.Color](refs.Colors, "Color", nil)),
		Clarity:       handler.NewRegistryHandler(service.NewRegistryService[model.Clarity](refs.Clarities, "Clarity", nil)),
		Status:        handler.NewRegistryHandler(service.NewRegistryService[model.Status](refs.Statuses, "Status", nil)),
		PaymentStatus: handler.NewRegistryHandler(service.NewRegistryService[model.PaymentStatus](refs.PaymentStatuses, "Payment status", nil)),
		Employee:      handler.NewRegistryHandler(service.NewEmployeeService(employees, attendanceRepo, nil)),
	}

	app := fiber.New()
	handler.SetupRoutes(app, h, authSvc, ws.NewHub())

	party := &model.Party{}
	party.Name, party.Active = "Acme", true
	require.NoError(t, refs.Parties.Create(context.Background(), party))
	shape := &model.Shape{}
	shape.Name, shape.Active = "Round", true
	require.NoError(t, refs.Shapes.Create(context.Background(), shape))

	return &testApp{app: app, party: party.ID, shape: shape.ID}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a JSON request, optionally with a session cookie, and returns the
// response plus its raw body.
func (a *testApp) do(t *testing.T, method, path string, body any, session *http.Cookie) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(session)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return env
}

// signUp registers userName with role and returns the session cookie.
func (a *testApp) signUp(t *testing.T, userName, role string) *http.Cookie {
	t.Helper()
	resp, raw := a.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"userName": userName, "password": "secret123", "role": role,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	for _, c := range resp.Cookies() {
		if c.Name == "jwt" {
			return c
		}
	}
	t.Fatal("signup did not set the jwt cookie")
	return nil
}
