package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/app"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/crypto/bech32"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/orm"
	"github.com/custodia-labs/escrowd/x"
	"github.com/custodia-labs/escrowd/x/cash"
	"github.com/custodia-labs/escrowd/x/offer"
)

// Server exposes the offer service over HTTP. Mutations are folded
// into transactions and pushed through the dispatcher, reads go
// straight to committed state.
type Server struct {
	disp   *app.Dispatcher
	auth   x.CtxAuth
	ctrl   cash.Controller
	bucket orm.Bucket
	hrp    string
	log    zerolog.Logger
}

// NewServer wires the HTTP surface around a dispatcher.
func NewServer(disp *app.Dispatcher, auth x.CtxAuth, ctrl cash.Controller, hrp string, log zerolog.Logger) *Server {
	return &Server{
		disp:   disp,
		auth:   auth,
		ctrl:   ctrl,
		bucket: offer.NewBucket(),
		hrp:    hrp,
		log:    log,
	}
}

// Router builds the chi route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/offers", s.createOffer)
	r.Post("/offers/{offerID}/cancel", s.cancelOffer)
	r.Post("/offers/{offerID}/accept", s.acceptOffer)
	r.Get("/offers/last", s.lastOfferID)
	r.Get("/offers/active", s.activeOffers)
	r.Get("/offers/{offerID}", s.offerByID)

	r.Get("/users/{address}/offers", s.userOffers)
	r.Get("/users/{address}/incoming", s.userIncomingOffers)

	r.Post("/transfer", s.transfer)
	r.Get("/wallets/{address}", s.walletBalance)

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createOfferRequest struct {
	Recipient string       `json:"recipient"`
	Amount    *coin.Amount `json:"amount"`
}

func (s *Server) createOffer(w http.ResponseWriter, r *http.Request) {
	caller, err := s.caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req createOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, errors.Wrap(errors.ErrInput, "request body"))
		return
	}
	recipient, err := s.parseAddress(req.Recipient)
	if err != nil {
		writeErr(w, err)
		return
	}

	res, err := s.deliver(r, caller, &offer.CreateOfferMsg{
		Recipient: recipient,
		Amount:    req.Amount,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := orm.DecodeSequence(res.Data)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint64{"offer_id": id})
}

func (s *Server) cancelOffer(w http.ResponseWriter, r *http.Request) {
	s.settleOffer(w, r, func(id uint64) escrowd.Msg {
		return &offer.CancelOfferMsg{OfferID: id}
	})
}

func (s *Server) acceptOffer(w http.ResponseWriter, r *http.Request) {
	s.settleOffer(w, r, func(id uint64) escrowd.Msg {
		return &offer.AcceptOfferMsg{OfferID: id}
	})
}

func (s *Server) settleOffer(w http.ResponseWriter, r *http.Request, build func(uint64) escrowd.Msg) {
	caller, err := s.caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := offerID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if _, err := s.deliver(r, caller, build(id)); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"offer_id": id})
}

func (s *Server) lastOfferID(w http.ResponseWriter, r *http.Request) {
	last, err := offer.LastOfferID(s.disp.Store())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"last_offer_id": last})
}

func (s *Server) offerByID(w http.ResponseWriter, r *http.Request) {
	id, err := offerID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	off, err := offer.OfferByID(s.disp.Store(), s.bucket, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if off == nil {
		writeErr(w, errors.Wrapf(offer.ErrNoSuchOffer, "id %d", id))
		return
	}
	writeJSON(w, http.StatusOK, off)
}

func (s *Server) activeOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := offer.ActiveOffers(s.disp.Store(), s.bucket)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offerList(offers))
}

func (s *Server) userOffers(w http.ResponseWriter, r *http.Request) {
	s.userQuery(w, r, offer.UserOffers, offer.UserActiveOffers)
}

func (s *Server) userIncomingOffers(w http.ResponseWriter, r *http.Request) {
	s.userQuery(w, r, offer.UserIncomingOffers, offer.UserIncomingActiveOffers)
}

type offerQuery func(escrowd.ReadOnlyKVStore, orm.Bucket, escrowd.Address) ([]*offer.Offer, error)

func (s *Server) userQuery(w http.ResponseWriter, r *http.Request, all, activeOnly offerQuery) {
	addr, err := s.parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeErr(w, err)
		return
	}
	q := all
	if r.URL.Query().Get("active") == "true" {
		q = activeOnly
	}
	offers, err := q(s.disp.Store(), s.bucket, addr)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offerList(offers))
}

type transferRequest struct {
	Destination string       `json:"destination"`
	Amount      *coin.Amount `json:"amount"`
	Memo        string       `json:"memo,omitempty"`
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	caller, err := s.caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, errors.Wrap(errors.ErrInput, "request body"))
		return
	}
	dest, err := s.parseAddress(req.Destination)
	if err != nil {
		writeErr(w, err)
		return
	}
	if _, err := s.deliver(r, caller, &cash.SendMsg{
		Source:      caller,
		Destination: dest,
		Amount:      req.Amount,
		Memo:        req.Memo,
	}); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (s *Server) walletBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := s.parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeErr(w, err)
		return
	}
	balance, err := s.ctrl.Balance(s.disp.Store(), addr)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*coin.Amount{"balance": balance})
}

func (s *Server) deliver(r *http.Request, caller escrowd.Address, msg escrowd.Msg) (*escrowd.DeliverResult, error) {
	start := time.Now()
	ctx := s.auth.SetCaller(r.Context(), caller)
	res, err := s.disp.Deliver(ctx, &apiTx{msg: msg})
	observeTx(msg.Path(), time.Since(start).Seconds(), err)
	return res, err
}

// caller resolves the address the request acts for. Transport level
// authentication is out of scope here, the deployment fronts this
// service with an authenticating proxy that sets the header.
func (s *Server) caller(r *http.Request) (escrowd.Address, error) {
	raw := r.Header.Get("X-Caller")
	if raw == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing X-Caller header")
	}
	return s.parseAddress(raw)
}

// parseAddress accepts both the canonical hex form and the bech32 form
// with the configured prefix.
func (s *Server) parseAddress(raw string) (escrowd.Address, error) {
	if hrp, payload, err := bech32.Decode(raw); err == nil {
		if hrp != s.hrp {
			return nil, errors.Wrapf(errors.ErrInput, "address prefix %q", hrp)
		}
		addr := escrowd.Address(payload)
		return addr, addr.Validate()
	}
	return escrowd.ParseAddress(raw)
}

func offerID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "offerID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "offer id %q", raw)
	}
	return id, nil
}

func offerList(offers []*offer.Offer) map[string]interface{} {
	if offers == nil {
		offers = []*offer.Offer{}
	}
	return map[string]interface{}{"offers": offers}
}

// apiTx adapts a message to the transaction interface of the
// dispatcher.
type apiTx struct {
	msg escrowd.Msg
}

var _ escrowd.Tx = (*apiTx)(nil)

func (tx *apiTx) GetMsg() (escrowd.Msg, error) { return tx.msg, nil }

func (tx *apiTx) Marshal() ([]byte, error) { return json.Marshal(tx.msg) }

func (tx *apiTx) Unmarshal(b []byte) error { return json.Unmarshal(b, tx.msg) }

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErr(w http.ResponseWriter, err error) {
	code := errors.Code(err)
	writeJSON(w, httpStatus(code), map[string]interface{}{
		"code":  code,
		"error": err.Error(),
	})
}

// httpStatus maps the error classification codes to HTTP statuses.
func httpStatus(code uint32) int {
	switch code {
	case 0:
		return http.StatusOK
	case errors.Code(errors.ErrNotFound), errors.Code(offer.ErrNoSuchOffer):
		return http.StatusNotFound
	case errors.Code(errors.ErrUnauthorized), errors.Code(offer.ErrNotOfferCreator), errors.Code(offer.ErrNotOfferRecipient):
		return http.StatusForbidden
	case errors.Code(offer.ErrOfferNotActive):
		return http.StatusConflict
	case errors.Code(offer.ErrZeroPayment), errors.Code(errors.ErrInput), errors.Code(errors.ErrAmount), errors.Code(errors.ErrEmpty), errors.Code(errors.ErrState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
