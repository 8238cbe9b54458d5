package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"textbuddy/internal/backend"
	"textbuddy/internal/crypto"
	"textbuddy/internal/domain"
	xlog "textbuddy/internal/log"
)

const (
	statusSubscribed   = "subscribed"
	statusUnsubscribed = "unsubscribed"
)

// SMSRequest is an inbound message as the SMS gateway forwards it.
type SMSRequest struct {
	From string `json:"from"`
	Body string `json:"body"`
}

// SMSResponse reports what an inbound message did. Link is set for
// SUBSCRIBE and is the confirmation deep link the user receives.
type SMSResponse struct {
	Action domain.Action `json:"action"`
	UserID domain.UserID `json:"userID"`
	Link   string        `json:"link,omitempty"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req domain.ConnectRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if strings.TrimSpace(req.GameID.String()) == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id")
		return
	}

	status := statusUnsubscribed
	if s.subs.Active(req.GameID, req.UserID) {
		status = statusSubscribed
	}
	body, err := crypto.SignQuery(domain.Query{
		backend.FieldPhoneNumber:  s.cfg.PhoneNumber,
		backend.FieldUserIDStatus: status,
	}, s.cfg.APIKey, crypto.DefaultSignatureKey)
	if err != nil {
		s.log.Error().Err(err).Msg("sign connect reply")
		writeError(w, http.StatusInternalServerError, "signing_failed")
		return
	}
	s.metrics.Signed("connect")
	s.log.Debug().
		Str(xlog.FieldGameID, req.GameID.String()).
		Str(xlog.FieldUserID, req.UserID.String()).
		Str("status", status).
		Msg("connect")
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSMS(w http.ResponseWriter, r *http.Request) {
	var req SMSRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	intent, err := domain.ParseSignUpIntent(req.Body)
	if err != nil {
		s.metrics.SMS("invalid", "rejected")
		writeError(w, http.StatusBadRequest, "invalid_intent")
		return
	}
	action := string(intent.Action)

	switch intent.Action {
	case domain.ActionSubscribe:
		id := s.subs.Subscribe(intent.GameID, req.From)
		link, err := s.confirmationLink(id)
		if err != nil {
			s.log.Error().Err(err).Msg("sign confirmation link")
			writeError(w, http.StatusInternalServerError, "signing_failed")
			return
		}
		s.metrics.SMS(action, "accepted")
		s.metrics.Signed("confirmation")
		s.log.Info().Str(xlog.FieldGameID, intent.GameID.String()).Str(xlog.FieldUserID, id.String()).Msg("subscribed")
		writeJSON(w, http.StatusOK, SMSResponse{Action: intent.Action, UserID: id, Link: link})

	case domain.ActionUnsubscribe:
		id, err := s.subs.Unsubscribe(intent.GameID, req.From)
		if errors.Is(err, ErrUnknownSubscriber) {
			s.metrics.SMS(action, "unknown")
			writeError(w, http.StatusNotFound, "unknown_subscriber")
			return
		}
		s.metrics.SMS(action, "accepted")
		s.log.Info().Str(xlog.FieldGameID, intent.GameID.String()).Str(xlog.FieldUserID, id.String()).Msg("unsubscribed")
		writeJSON(w, http.StatusOK, SMSResponse{Action: intent.Action, UserID: id})
	}
}

// confirmationLink renders <scheme>://confirm?id=..&status=success&sig=..
func (s *Server) confirmationLink(id domain.UserID) (string, error) {
	q := domain.Query{"status": "success", "id": id.String()}
	canonical, err := crypto.Canonical(q, crypto.DefaultSignatureKey)
	if err != nil {
		return "", err
	}
	sig, err := crypto.Sign(q, s.cfg.APIKey, crypto.DefaultSignatureKey)
	if err != nil {
		return "", err
	}
	return s.cfg.Scheme + "://confirm?" + canonical + "&" + crypto.DefaultSignatureKey + "=" + sig, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
