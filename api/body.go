package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	bodyCtxKey = ctxKey("body")

	// maxBodySize bounds the size of JSON request bodies.
	maxBodySize = 100 << 10

	studentIDKey = "student_id"
	learnerIDKey = "learner_id"
	classIDKey   = "class_id"
)

type ctxKey string

// JSONBody decodes JSON request bodies and makes them available to
// subsequent handlers through requestBody. Only JSON objects and arrays are
// accepted. Requests without a JSON content type get an empty body. A body
// that cannot be decoded is handed to the terminal error responder.
func JSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		if !isJSON(req) {
			next.ServeHTTP(res, req)
			return
		}

		body, err := decodeBody(http.MaxBytesReader(res, req.Body, maxBodySize))
		if err != nil {
			serverError(res)
			return
		}

		req = req.WithContext(context.WithValue(req.Context(), bodyCtxKey, body))
		next.ServeHTTP(res, req)
	})
}

func isJSON(req *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeBody decodes a JSON object into a bson.D, keeping the order of its
// fields, or a JSON array into a bson.A. An empty body is an empty document.
// Objects are kept as they are sent, keys starting with "$" included.
func decodeBody(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll error: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return bson.D{}, nil
	}

	if data[0] != '{' && data[0] != '[' {
		return nil, errors.New("body must be a JSON object or array")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	body, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decodeValue error: %w", err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("body must be a single JSON value")
	}

	return body, nil
}

// decodeValue reads the next JSON value from dec.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := nextToken(dec)
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			doc := bson.D{}
			for dec.More() {
				keyTok, err := nextToken(dec)
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				doc = append(doc, bson.E{Key: key, Value: value})
			}
			_, err = nextToken(dec)
			return doc, err
		case '[':
			arr := bson.A{}
			for dec.More() {
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			_, err = nextToken(dec)
			return arr, err
		}
		return nil, fmt.Errorf("unexpected %q", rune(v))
	case json.Number:
		return jsonNumber(v), nil
	default:
		// string, bool or nil.
		return v, nil
	}
}

// nextToken is dec.Token for reads inside a value, where running out of
// input is an error.
func nextToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

// jsonNumber stores integers as int32 when they fit, then int64, and
// everything else as a double.
func jsonNumber(n json.Number) any {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return int32(i)
		}
		return i
	}

	// A valid JSON number only fails here when out of range, which yields
	// +/-Inf.
	f, _ := strconv.ParseFloat(n.String(), 64)
	return f
}

// requestBody returns the decoded JSON body of req, an empty document if
// the request did not carry one.
func requestBody(req *http.Request) any {
	body := req.Context().Value(bodyCtxKey)
	if body == nil {
		return bson.D{}
	}
	return body
}

// bodyField returns the value of key in the decoded body, or nil if the body
// is not a document or does not have key.
func bodyField(body any, key string) any {
	switch doc := body.(type) {
	case bson.D:
		for _, e := range doc {
			if e.Key == key {
				return e.Value
			}
		}
	case bson.M:
		return doc[key]
	}
	return nil
}

// normalizeLegacyFields moves a student_id field to learner_id. An existing
// learner_id is overwritten in place, otherwise learner_id takes the place of
// student_id.
func normalizeLegacyFields(grade any) any {
	switch doc := grade.(type) {
	case bson.D:
		studentIdx, learnerIdx := -1, -1
		for i, e := range doc {
			switch e.Key {
			case studentIDKey:
				studentIdx = i
			case learnerIDKey:
				learnerIdx = i
			}
		}
		if studentIdx < 0 {
			return doc
		}

		studentID := doc[studentIdx].Value
		if learnerIdx < 0 {
			doc[studentIdx].Key = learnerIDKey
			return doc
		}

		doc[learnerIdx].Value = studentID
		return append(doc[:studentIdx], doc[studentIdx+1:]...)

	case bson.M:
		studentID, found := doc[studentIDKey]
		if found {
			doc[learnerIDKey] = studentID
			delete(doc, studentIDKey)
		}
		return doc
	}

	return grade
}
