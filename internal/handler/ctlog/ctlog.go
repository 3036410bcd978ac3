// Package ctlog serves the log's HTTP API: SCT issuance, tree head
// publication and retrieval, and signature verification.
package ctlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/logsigner"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/model"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/serializer"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/service"
	"go.uber.org/zap"
)

// MaxBodyBytes caps every request body the API reads.
const MaxBodyBytes = 4 << 20

type CTLogHandler struct {
	service LogService
	log     *zap.Logger
}

func NewCTLogHandler(service LogService, log *zap.Logger) *CTLogHandler {
	return &CTLogHandler{
		service: service,
		log:     log,
	}
}

// AddChain issues an SCT for chain[0]. With precert set, chain[0] is taken
// as the TBS precertificate.
func (h *CTLogHandler) AddChain(w http.ResponseWriter, r *http.Request) {
	var req model.AddChainRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Chain) == 0 {
		h.logAndWriteError(w, errors.New("empty chain"), http.StatusBadRequest, "chain must not be empty")
		return
	}

	entry := &ct.LogEntry{Type: ct.X509LogEntryType}
	if req.Precert {
		entry.Type = ct.PrecertLogEntryType
		entry.PrecertEntry = &ct.PrecertChainEntry{PreCertificate: req.Chain[0], PrecertificateChain: req.Chain[1:]}
	} else {
		entry.X509Entry = &ct.X509ChainEntry{LeafCertificate: req.Chain[0], CertificateChain: req.Chain[1:]}
	}

	sct, err := h.service.IssueSCT(r.Context(), entry)
	if err != nil {
		h.writeSignError(w, err, "failed to issue sct", zap.Stringer("entry_type", entry.Type))
		return
	}

	signature, err := serializer.SerializeDigitallySigned(sct.Signature)
	if err != nil {
		h.logAndWriteError(w, err, http.StatusInternalServerError, "failed to encode signature")
		return
	}

	extensions := sct.Extensions
	if extensions == nil {
		extensions = []byte{}
	}

	h.writeJSON(w, http.StatusOK, model.AddChainResponse{
		SCTVersion: uint8(sct.Version),
		ID:         sct.LogID[:],
		Timestamp:  sct.Timestamp,
		Extensions: extensions,
		Signature:  signature,
	})
}

// PublishSTH signs a new tree head for the given size and root.
func (h *CTLogHandler) PublishSTH(w http.ResponseWriter, r *http.Request) {
	var req model.PublishSTHRequest
	if !h.decode(w, r, &req) {
		return
	}

	sth, err := h.service.PublishSTH(r.Context(), req.TreeSize, req.SHA256RootHash)
	if errors.Is(err, service.ErrTreeShrunk) {
		h.logAndWriteError(w, err, http.StatusConflict, "tree size must not decrease",
			zap.Uint64("tree_size", req.TreeSize))
		return
	}
	if err != nil {
		h.writeSignError(w, err, "failed to publish sth", zap.Uint64("tree_size", req.TreeSize))
		return
	}

	h.writeSTH(w, sth)
}

func (h *CTLogHandler) GetSTH(w http.ResponseWriter, r *http.Request) {
	sth, err := h.service.LatestSTH(r.Context())
	if errors.Is(err, service.ErrNoTreeHead) {
		h.logAndWriteError(w, err, http.StatusNotFound, "no tree head published")
		return
	}
	if err != nil {
		h.logAndWriteError(w, err, http.StatusInternalServerError, "failed to load sth")
		return
	}

	h.writeSTH(w, sth)
}

// VerifySCT reports the verification result for a wire-encoded SCT signature.
// Every verification outcome is a 200; only malformed requests are rejected.
func (h *CTLogHandler) VerifySCT(w http.ResponseWriter, r *http.Request) {
	var req model.VerifySCTRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.VerifySCT(req.Timestamp, ct.LogEntryType(req.EntryType), req.Certificate, req.Signature)
	h.writeVerifyResult(w, err)
}

func (h *CTLogHandler) VerifySTH(w http.ResponseWriter, r *http.Request) {
	var req model.VerifySTHRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.VerifySTH(req.Timestamp, req.TreeSize, req.SHA256RootHash, req.TreeHeadSignature)
	h.writeVerifyResult(w, err)
}

func (h *CTLogHandler) writeSTH(w http.ResponseWriter, sth *ct.SignedTreeHead) {
	signature, err := serializer.SerializeDigitallySigned(sth.TreeHeadSignature)
	if err != nil {
		h.logAndWriteError(w, err, http.StatusInternalServerError, "failed to encode signature")
		return
	}

	h.writeJSON(w, http.StatusOK, model.GetSTHResponse{
		TreeSize:          sth.TreeSize,
		Timestamp:         sth.Timestamp,
		SHA256RootHash:    sth.SHA256RootHash,
		TreeHeadSignature: signature,
	})
}

func (h *CTLogHandler) writeVerifyResult(w http.ResponseWriter, err error) {
	var verr logsigner.VerifyError
	if err != nil && !errors.As(err, &verr) {
		h.logAndWriteError(w, err, http.StatusInternalServerError, "verification failed")
		return
	}
	h.writeJSON(w, http.StatusOK, model.VerifyResponse{Result: logsigner.ResultName(err)})
}

// writeSignError maps canonicalization failures to 400 and anything else to 500.
func (h *CTLogHandler) writeSignError(w http.ResponseWriter, err error, msg string, fields ...zap.Field) {
	var serr logsigner.SignError
	if errors.As(err, &serr) {
		h.logAndWriteError(w, err, http.StatusBadRequest, serr.String(), fields...)
		return
	}
	h.logAndWriteError(w, err, http.StatusInternalServerError, msg, fields...)
}

func (h *CTLogHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
		h.logAndWriteError(w, fmt.Errorf("unsupported content type %q", contentType),
			http.StatusUnsupportedMediaType, "unsupported content type")
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logAndWriteError(w, err, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		h.logAndWriteError(w, err, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func (h *CTLogHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to write response", zap.Error(err))
	}
}

func (h *CTLogHandler) logAndWriteError(
	w http.ResponseWriter,
	err error,
	statusCode int,
	msg string,
	fields ...zap.Field,
) {
	logEntry := h.log.With(fields...)
	if statusCode >= http.StatusInternalServerError {
		logEntry.Error(msg, zap.Error(err))
	} else {
		logEntry.Debug(msg, zap.Error(err))
	}
	http.Error(w, msg, statusCode)
}
