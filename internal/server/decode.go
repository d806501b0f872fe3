package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/hetulpatel/PitchDeck/internal/pitch"
)

var errTooLarge = errors.New("request body too large")

// badRequestError is a client mistake in the body that is not a missing field.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

// decodeRequest reads the pitch form from a multipart, urlencoded or JSON body.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (pitch.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return decodeJSON(r)
	case "multipart/form-data":
		return decodeMultipart(r)
	case "application/x-www-form-urlencoded", "":
		if err := r.ParseForm(); err != nil {
			return pitch.Request{}, classify(err, "malformed form body")
		}
		return formFields(r.PostForm.Get), nil
	default:
		return pitch.Request{}, &badRequestError{msg: fmt.Sprintf("unsupported content type %q", mediaType)}
	}
}

func decodeJSON(r *http.Request) (pitch.Request, error) {
	var req pitch.Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return pitch.Request{}, nil
		}
		return pitch.Request{}, classify(err, "malformed JSON body")
	}
	return req, nil
}

func decodeMultipart(r *http.Request) (pitch.Request, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return pitch.Request{}, classify(err, "malformed multipart body")
	}
	req := formFields(r.FormValue)
	if r.MultipartForm == nil {
		return req, nil
	}
	for _, fh := range r.MultipartForm.File["files"] {
		upload, err := readUpload(fh)
		if err != nil {
			return pitch.Request{}, classify(err, "unreadable upload "+fh.Filename)
		}
		req.Files = append(req.Files, upload)
	}
	return req, nil
}

func readUpload(fh *multipart.FileHeader) (pitch.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return pitch.Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return pitch.Upload{}, err
	}
	return pitch.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func formFields(get func(string) string) pitch.Request {
	return pitch.Request{
		CompanyName:  get("company_name"),
		Industry:     get("industry"),
		Problem:      get("problem"),
		Solution:     get("solution"),
		FundingStage: get("funding_stage"),
		Traction:     get("traction"),
		Contact:      get("contact"),
	}
}

func classify(err error, msg string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return errTooLarge
	}
	return &badRequestError{msg: msg}
}
