// Package extract is the single gateway to the generative service. Its calls never fail:
// JSON generation degrades to a default record and text generation degrades to
// FailureSentinel, so callers never branch on errors.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// FailureSentinel is returned by Complete when the generative service fails.
// The spelling is part of the observable output and must not be corrected.
const FailureSentinel = "error occured."

// Extractor wraps an llm.Client with logging and degraded defaults.
type Extractor struct {
	client       llm.Client
	tier         llm.ModelTier
	log          *zap.Logger
	payloadLimit int
}

// New returns an Extractor at TierStandard.
func New(client llm.Client, log *zap.Logger) *Extractor {
	return &Extractor{
		client:       client,
		tier:         llm.TierStandard,
		log:          logger.OrNop(log).Named("extract"),
		payloadLimit: logger.DefaultPayloadLimit,
	}
}

// WithTier returns a copy of e that targets tier.
func (e *Extractor) WithTier(tier llm.ModelTier) *Extractor {
	cp := *e
	cp.tier = tier
	return &cp
}

// Tier returns the model tier requests are sent to.
func (e *Extractor) Tier() llm.ModelTier {
	return e.tier
}

// ParseError is returned when a response cannot be turned into a record.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// recordPtr constrains *T to the record behavior used after decoding.
type recordPtr[T any] interface {
	*T
	types.Record
}

// JSON requests a JSON response and decodes it into T. Transport failures, undecodable
// responses and non-object responses yield a default T. Fields with the wrong type are
// defaulted individually and the rest of the record is kept.
func JSON[T any, PT recordPtr[T]](ctx context.Context, e *Extractor, prompt, system string) T {
	if system == "" {
		system = prompts.Analysis("json-default-system")
	}

	var zero T
	name := PT(&zero).SchemaName()
	log := e.log.With(zap.String("record", name), zap.String("tier", string(e.tier)))

	raw, ok := e.call(ctx, log, system, prompt, true)
	if !ok {
		return defaultRecord[T, PT]()
	}

	rec, err := decodeRecord[T](raw)
	if err != nil {
		var partial *mapstructure.Error
		if !errors.As(err, &partial) {
			log.Warn("discarding unparseable response", zap.Error(err))
			return defaultRecord[T, PT]()
		}
		log.Warn("defaulting mistyped fields", zap.Strings("errors", partial.Errors))
	}
	PT(&rec).Normalize()

	if err := schemas.ValidateRecord(name, raw); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			log.Debug("response does not match schema", zap.Strings("fields", ve.Fields()))
		} else {
			log.Debug("schema check skipped", zap.Error(err))
		}
	}

	return rec
}

// Complete requests free text. Any failure yields FailureSentinel.
func (e *Extractor) Complete(ctx context.Context, prompt, system string) string {
	if system == "" {
		system = prompts.Analysis("text-default-system")
	}

	log := e.log.With(zap.String("tier", string(e.tier)))
	text, ok := e.call(ctx, log, system, prompt, false)
	if !ok {
		return FailureSentinel
	}
	return text
}

func (e *Extractor) call(ctx context.Context, log *zap.Logger, system, prompt string, jsonMode bool) (string, bool) {
	log.Info("llm request",
		zap.Bool("json", jsonMode),
		zap.String("model", e.client.GetModel(e.tier)),
		zap.Int("system_len", len(system)),
		zap.Int("prompt_len", len(prompt)),
	)
	log.Debug("llm request payload", zap.String("prompt", logger.TruncateForLog(prompt, e.payloadLimit)))

	start := time.Now()
	var (
		out string
		err error
	)
	if jsonMode {
		out, err = e.client.GenerateJSON(ctx, system, prompt, e.tier)
	} else {
		out, err = e.client.GenerateContent(ctx, system, prompt, e.tier)
	}
	if err != nil {
		log.Warn("llm request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", false
	}

	log.Info("llm response", zap.Duration("elapsed", time.Since(start)), zap.Int("response_len", len(out)))
	log.Debug("llm response payload", zap.String("response", logger.TruncateForLog(out, e.payloadLimit)))
	return out, true
}

// decodeRecord decodes raw into T, tolerating unknown keys and loosely typed values.
// A *mapstructure.Error return means T holds every field that did decode.
func decodeRecord[T any](raw string) (T, error) {
	var rec T

	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return rec, &ParseError{Message: "response is not a JSON object", Cause: err}
	}
	if m == nil {
		return rec, &ParseError{Message: "response is null"}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       looseValueHook,
	})
	if err != nil {
		return rec, &ParseError{Message: "build decoder", Cause: err}
	}

	return rec, dec.Decode(m)
}

// looseValueHook drops list elements that cannot become the element type, so a mistyped
// element is left out rather than decoded as a blank entry. It also rejects numbers that
// overflow an integer field, which then keeps its default.
func looseValueHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch {
	case to.Kind() == reflect.Slice:
		items, ok := data.([]any)
		if !ok {
			return data, nil
		}
		kept := make([]any, 0, len(items))
		for _, item := range items {
			if convertible(item, to.Elem()) {
				kept = append(kept, item)
			}
		}
		return kept, nil
	case isSignedInt(to.Kind()):
		if f, ok := data.(float64); ok && !fitsInt(f, to.Bits()) {
			return nil, fmt.Errorf("%g overflows %s", f, to)
		}
	}
	return data, nil
}

// convertible reports whether a decoded JSON value can weakly decode into t.
func convertible(v any, t reflect.Type) bool {
	if v == nil {
		return false
	}
	switch k := t.Kind(); {
	case k == reflect.String:
		switch v.(type) {
		case string, float64, bool:
			return true
		}
		return false
	case k == reflect.Struct, k == reflect.Map:
		_, ok := v.(map[string]any)
		return ok
	case k == reflect.Slice:
		_, ok := v.([]any)
		return ok
	case isSignedInt(k):
		switch x := v.(type) {
		case float64:
			return fitsInt(x, t.Bits())
		case bool:
			return true
		case string:
			_, err := strconv.ParseInt(x, 0, t.Bits())
			return err == nil
		}
		return false
	}
	return true
}

func isSignedInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func fitsInt(f float64, bits int) bool {
	limit := math.Ldexp(1, bits-1)
	return !math.IsNaN(f) && f >= -limit && f < limit
}

func defaultRecord[T any, PT recordPtr[T]]() T {
	var rec T
	PT(&rec).Normalize()
	return rec
}
