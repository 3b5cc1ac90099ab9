//go:build e2e

package lead_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"
	"time"

	"leadgate/internal/handler/dto/response"
	"leadgate/tests/common/authtest"
	"leadgate/tests/common/builder"
	"leadgate/tests/common/dbtest"
	"leadgate/tests/common/httptest"
	"leadgate/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const (
	leadsURL         = "/api/leads"
	leadURL          = "/api/leads/%s"
	purchaseURL      = "/api/leads/%s/purchase"
	stripeWebhookURL = "/api/webhooks/stripe"
)

type LeadSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
}

func (s *LeadSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func TestLeadSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(LeadSuite))
}

func (s *LeadSuite) token(userID uuid.UUID) string {
	return s.jwtHelper.GenerateToken(s.T(), userID)
}

func (s *LeadSuite) purchase(leadID uuid.UUID, token string) (*response.PurchaseResponse, int) {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
		fmt.Sprintf(purchaseURL, leadID), nil, token)

	var body response.PurchaseResponse
	httptest.DecodeResponseBody(s.T(), rec.Body, &body)
	return &body, rec.Code
}

// =============================================================================
// TestLeadIntake - lead submission and visibility
// =============================================================================

func (s *LeadSuite) TestLeadIntake() {
	s.Run("submitted lead is visible with contact details redacted", func() {
		t := s.T()

		reqBody := builder.NewLeadBuilder().BuildCreateRequestDTO()
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, leadsURL, reqBody, "")

		var created map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusCreated, &created)
		leadID := created["id"]
		s.Equal("/api/leads/"+leadID, rec.Header().Get("Location"))

		viewer := uuid.New()
		getRec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(leadURL, leadID), nil, s.token(viewer))

		var view response.LeadResponse
		httptest.AssertSuccessResponse(t, getRec, http.StatusOK, &view)
		s.Equal("New", view.Status)
		s.Equal(3, view.RemainingSlots)
		s.False(view.Owned)
		s.Empty(view.ContactEmail)
		s.Empty(view.ContactPhone)
		s.Empty(view.Street)
	})

	s.Run("malformed submission is rejected", func() {
		t := s.T()

		reqBody := builder.NewLeadBuilder().BuildCreateRequestMap()
		delete(reqBody, "email")

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, leadsURL, reqBody, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("list shows open leads and hides archived ones from strangers", func() {
		t := s.T()

		openID := dbtest.CreateTestLead(t, s.DB, "excavator", "open@example.com")
		archivedID := dbtest.CreateTestLead(t, s.DB, "crane", "full@example.com")
		now := time.Now()
		for range 3 {
			dbtest.GrantTestPurchase(t, s.DB, archivedID, uuid.New(), now)
		}

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet, leadsURL, nil, s.token(uuid.New()))

		var views []response.LeadResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &views)
		s.Len(views, 1)
		s.Equal(openID.String(), views[0].ID.String())
	})
}

// =============================================================================
// TestPurchase - optimistic purchase path
// =============================================================================

func (s *LeadSuite) TestPurchase() {
	s.Run("three purchasers fill the lead, the fourth is rejected", func() {
		t := s.T()

		leadID := dbtest.CreateTestLead(t, s.DB, "excavator", "requester@example.com")
		expectedStatus := []string{"Purchased", "Purchased", "Archived"}

		for i := range 3 {
			body, code := s.purchase(leadID, s.token(uuid.New()))
			s.Equal(http.StatusOK, code)
			s.True(body.Granted)
			s.Equal(expectedStatus[i], body.Status)
		}

		body, code := s.purchase(leadID, s.token(uuid.New()))
		s.Equal(http.StatusConflict, code)
		s.False(body.Granted)
		s.Equal("capacity_exceeded", body.Reason)

		s.Equal(3, dbtest.CountPurchases(t, s.DB, leadID))
		s.Equal("Archived", dbtest.LeadStatus(t, s.DB, leadID))
	})

	s.Run("repeat purchase by the same user does not consume a second slot", func() {
		t := s.T()

		leadID := dbtest.CreateTestLead(t, s.DB, "excavator", "requester@example.com")
		purchaser := uuid.New()
		token := s.token(purchaser)

		first, code := s.purchase(leadID, token)
		s.Equal(http.StatusOK, code)
		s.True(first.Granted)

		second, code := s.purchase(leadID, token)
		s.Equal(http.StatusOK, code)
		s.False(second.Granted)
		s.Equal("already_purchased", second.Reason)

		s.Equal(1, dbtest.CountPurchases(t, s.DB, leadID))
	})

	s.Run("purchaser sees full contact details afterwards", func() {
		t := s.T()

		leadID := dbtest.CreateTestLead(t, s.DB, "excavator", "requester@example.com")
		purchaser := uuid.New()
		token := s.token(purchaser)

		_, code := s.purchase(leadID, token)
		s.Equal(http.StatusOK, code)

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(leadURL, leadID), nil, token)

		var view response.LeadResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &view)
		s.True(view.Owned)
		s.Equal("requester@example.com", view.ContactEmail)
		s.NotEmpty(view.ContactPhone)
		s.NotEmpty(view.Street)
		s.NotNil(view.PurchasedAt)
	})

	s.Run("purchase of an unknown lead returns 404", func() {
		_, code := s.purchase(uuid.New(), s.token(uuid.New()))
		s.Equal(http.StatusNotFound, code)
	})

	s.Run("purchase without a token returns 401", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf(purchaseURL, uuid.New()), nil, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("expired token returns 401", func() {
		expired := s.jwtHelper.CreateExpiredToken(s.T(), uuid.New())
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf(purchaseURL, uuid.New()), nil, expired)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

// =============================================================================
// TestStripeWebhook - confirmed payment reconciliation path
// =============================================================================

func (s *LeadSuite) signedWebhook(payload []byte) map[string]string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(s.Config.Stripe.WebhookSecret))
	mac.Write(fmt.Appendf(nil, "%d.%s", ts, payload))
	return map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))),
		"Content-Type":     "application/json",
	}
}

func succeededIntentPayload(eventID string, leadID, userID uuid.UUID) []byte {
	return fmt.Appendf(nil, `{
		"id": %q,
		"type": "payment_intent.succeeded",
		"created": %d,
		"data": {
			"object": {
				"id": "pi_e2e",
				"amount": 4900,
				"amount_received": 4900,
				"metadata": {"leadId": %q, "userId": %q}
			}
		}
	}`, eventID, time.Now().Unix(), leadID, userID)
}

func (s *LeadSuite) TestStripeWebhook() {
	s.Run("confirmed payment grants a slot and records the event once", func() {
		t := s.T()

		leadID := dbtest.CreateTestLead(t, s.DB, "excavator", "requester@example.com")
		purchaser := uuid.New()
		payload := succeededIntentPayload("evt_e2e_1", leadID, purchaser)

		rec := httptest.PerformRawRequest(t, s.Router, http.MethodPost, stripeWebhookURL,
			payload, s.signedWebhook(payload))

		var body response.WebhookResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		s.True(body.Received)
		s.Equal("processed", body.Outcome)

		s.Equal(1, dbtest.CountPurchases(t, s.DB, leadID))
		s.Equal(1, dbtest.CountLedgerEntries(t, s.DB, leadID))
		s.Equal("Purchased", dbtest.LeadStatus(t, s.DB, leadID))

		// Redelivery: same event id, no second grant, no second ledger entry.
		replay := httptest.PerformRawRequest(t, s.Router, http.MethodPost, stripeWebhookURL,
			payload, s.signedWebhook(payload))

		var replayBody response.WebhookResponse
		httptest.AssertSuccessResponse(t, replay, http.StatusOK, &replayBody)
		s.Equal("duplicate", replayBody.Outcome)
		s.Equal(1, dbtest.CountPurchases(t, s.DB, leadID))
		s.Equal(1, dbtest.CountLedgerEntries(t, s.DB, leadID))
	})

	s.Run("confirmation for a full lead acks with a conflict and rolls the ledger back", func() {
		t := s.T()

		leadID := dbtest.CreateTestLead(t, s.DB, "excavator", "requester@example.com")
		now := time.Now()
		for range 3 {
			dbtest.GrantTestPurchase(t, s.DB, leadID, uuid.New(), now)
		}

		payload := succeededIntentPayload("evt_e2e_2", leadID, uuid.New())
		rec := httptest.PerformRawRequest(t, s.Router, http.MethodPost, stripeWebhookURL,
			payload, s.signedWebhook(payload))

		var body response.WebhookResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		s.True(body.Received)
		s.Equal("capacity_exceeded", body.Conflict)

		s.Equal(3, dbtest.CountPurchases(t, s.DB, leadID))
		s.Equal(0, dbtest.CountLedgerEntries(t, s.DB, leadID))
	})

	s.Run("confirmation for an already owning purchaser records the event without a second grant", func() {
		t := s.T()

		leadID := dbtest.CreateTestLead(t, s.DB, "excavator", "requester@example.com")
		purchaser := uuid.New()
		dbtest.GrantTestPurchase(t, s.DB, leadID, purchaser, time.Now())

		payload := succeededIntentPayload("evt_e2e_3", leadID, purchaser)
		rec := httptest.PerformRawRequest(t, s.Router, http.MethodPost, stripeWebhookURL,
			payload, s.signedWebhook(payload))

		var body response.WebhookResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		s.Equal("processed", body.Outcome)

		s.Equal(1, dbtest.CountPurchases(t, s.DB, leadID))
		s.Equal(1, dbtest.CountLedgerEntries(t, s.DB, leadID))
	})

	s.Run("failed charge is acked and changes nothing", func() {
		t := s.T()

		leadID := dbtest.CreateTestLead(t, s.DB, "excavator", "requester@example.com")
		payload := fmt.Appendf(nil, `{
			"id": "evt_e2e_4",
			"type": "payment_intent.payment_failed",
			"data": {"object": {"id": "pi_fail", "amount": 4900, "metadata": {"leadId": %q, "userId": %q}}}
		}`, leadID, uuid.New())

		rec := httptest.PerformRawRequest(t, s.Router, http.MethodPost, stripeWebhookURL,
			payload, s.signedWebhook(payload))

		var body response.WebhookResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		s.Equal("ignored", body.Outcome)
		s.Equal(0, dbtest.CountPurchases(t, s.DB, leadID))
		s.Equal(0, dbtest.CountLedgerEntries(t, s.DB, leadID))
	})

	s.Run("unsigned delivery is rejected", func() {
		t := s.T()

		leadID := dbtest.CreateTestLead(t, s.DB, "excavator", "requester@example.com")
		payload := succeededIntentPayload("evt_e2e_5", leadID, uuid.New())

		rec := httptest.PerformRawRequest(t, s.Router, http.MethodPost, stripeWebhookURL,
			payload, map[string]string{"Content-Type": "application/json"})

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(0, dbtest.CountPurchases(t, s.DB, leadID))
	})
}
