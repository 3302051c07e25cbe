package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/atomstore/internal/config"
	"github.com/roach88/atomstore/internal/engine"
	"github.com/roach88/atomstore/internal/store"
)

func decodeEnvelope(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	return resp
}

func TestOutputFormatter_SuccessWriteResult(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(engine.WriteResult{
		Record:   `(CG07AU599 ("Prakhar") "0xABC" "car" "RC123")`,
		RecordID: "abc123",
	}))

	resp := decodeEnvelope(t, buf)
	assert.Equal(t, "ok", resp["status"])
	assert.NotContains(t, resp, "error")
	assert.Equal(t, map[string]any{
		"record":    `(CG07AU599 ("Prakhar") "0xABC" "car" "RC123")`,
		"record_id": "abc123",
	}, resp["data"])
}

func TestOutputFormatter_FailEnvelopes(t *testing.T) {
	tests := []struct {
		name        string
		op          string
		err         error
		wantCode    string
		wantExit    int
		wantMessage string
	}{
		{
			name:        "store_error",
			op:          "register vehicle",
			err:         &store.Error{Op: "insert", Path: "/data/vehicles.metta", Err: store.ErrResourceMissing},
			wantCode:    ErrCodeStore,
			wantExit:    ExitStoreError,
			wantMessage: "register vehicle: store insert /data/vehicles.metta: backing file does not exist",
		},
		{
			name:        "config_error",
			op:          "load config",
			err:         fmt.Errorf("%w: log_level: unknown level %q", config.ErrConfigInvalid, "loud"),
			wantCode:    ErrCodeConfig,
			wantExit:    ExitStoreError,
			wantMessage: `load config: invalid config: log_level: unknown level "loud"`,
		},
		{
			name:        "price_not_numeric",
			op:          "log transaction",
			err:         &engine.ValidationError{Fields: []string{"price"}, Message: "price must be numeric, got cheap"},
			wantCode:    ErrCodeValidation,
			wantExit:    ExitValidation,
			wantMessage: "log transaction: validation failed: price must be numeric, got cheap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: buf}

			err := formatter.Fail(tt.op, tt.err)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.ErrorIs(t, err, tt.err)

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Nil(t, resp.Data)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}

func TestOutputFormatter_StoreErrorHasNoDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	_ = formatter.Fail("list vehicles", &store.Error{Op: "scan", Path: "/data/vehicles.metta", Err: errors.New("permission denied")})

	resp := decodeEnvelope(t, buf)
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "E301", errObj["code"])
	assert.NotContains(t, errObj, "details")
}

func TestOutputFormatter_NotFoundJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.NotFound("no details for Atlantis")
	assert.Equal(t, ExitNotFound, GetExitCode(err))

	resp := decodeEnvelope(t, buf)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, map[string]any{"code": "E202", "message": "no details for Atlantis"}, resp["error"])
}

func TestOutputFormatter_TextFailDetailsOnlyWhenVerbose(t *testing.T) {
	missing := &engine.ValidationError{
		Fields:  []string{"full_name", "rc_detail"},
		Message: "missing required fields: full_name, rc_detail",
	}

	quiet := &bytes.Buffer{}
	_ = (&OutputFormatter{Format: "text", Writer: quiet}).Fail("register vehicle", missing)
	assert.Equal(t,
		"Error [E201]: register vehicle: validation failed: missing required fields: full_name, rc_detail\n",
		quiet.String())

	loud := &bytes.Buffer{}
	_ = (&OutputFormatter{Format: "text", Writer: loud, Verbose: true}).Fail("register vehicle", missing)
	assert.Contains(t, loud.String(), "Error [E201]: register vehicle")
	assert.Contains(t, loud.String(), "Details: map[fields:[full_name rc_detail]]")
}

func TestOutputFormatter_TextSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(plural(3, "vehicle")))
	assert.Equal(t, "3 vehicles\n", buf.String())
}

func TestOutputFormatter_VerboseLogSilentByDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	formatter.VerboseLog("Loaded config %s", ".atomstore.json")
	assert.Empty(t, buf.String())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit_error", NewExitError(ExitNotFound, "none"), ExitNotFound},
		{"wrapped_exit_error", fmt.Errorf("run: %w", NewExitError(ExitStoreError, "io")), ExitStoreError},
		{"plain_error", errors.New("unknown flag: --nope"), ExitValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"validation", &engine.ValidationError{Fields: []string{"price"}}, ErrCodeValidation, ExitValidation},
		{"store", &store.Error{Op: "append", Path: "/x", Err: store.ErrResourceMissing}, ErrCodeStore, ExitStoreError},
		{"config", fmt.Errorf("%w: bad level", config.ErrConfigInvalid), ErrCodeConfig, ExitStoreError},
		{"config_missing", fmt.Errorf("%w: x.json", config.ErrConfigFileNotFound), ErrCodeConfig, ExitStoreError},
		{"generic", errors.New("boom"), ErrCodeGeneric, ExitStoreError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := classify(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exit)
		})
	}
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Fail("register vehicle", &engine.ValidationError{
		Fields:  []string{"full_name"},
		Message: "missing required fields: full_name",
	})
	require.Error(t, err)
	assert.Equal(t, ExitValidation, GetExitCode(err))
	assert.True(t, engine.IsValidation(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "register vehicle")
	assert.Contains(t, resp.Error.Message, "full_name")
	assert.Equal(t, map[string]any{"fields": []any{"full_name"}}, resp.Error.Details)
}

func TestOutputFormatter_NotFound(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.NotFound("vehicle not found: ZZ000")
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, GetExitCode(err))
	assert.Equal(t, "Error [E202]: vehicle not found: ZZ000\n", buf.String())
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("Loaded config %s", ".atomstore.json")
	assert.Empty(t, out.String())
	assert.Equal(t, "Loaded config .atomstore.json\n", errOut.String())
}
