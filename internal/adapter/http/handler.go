package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"worldharvest/internal/app/commandbus"
	"worldharvest/internal/app/harvesting"
	"worldharvest/internal/app/harvestquery"
	"worldharvest/internal/app/ports"
	"worldharvest/internal/pkg/log"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type commandDispatcher interface {
	Dispatch(ctx context.Context, cmd commandbus.Command) (commandbus.Result, error)
	DispatchBatch(ctx context.Context, cmds []commandbus.Command, opts ...commandbus.BatchExecutionOptions) (commandbus.BatchCommandResult, error)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	Commands commandDispatcher
	Queries  harvestquery.Service
	KPI      kpiSnapshotProvider
	// Metrics serves the Prometheus exposition format when set.
	Metrics http.Handler
	// BatchParallelism applies to batches that do not ask for a degree.
	BatchParallelism int
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty sends no CORS
	// headers.
	CORSOrigin string
	Logger     log.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigin))

	commands := s.Group("/api/commands")
	commands.POST("/register", dispatchRoute[harvesting.RegisterNode](h))
	commands.POST("/harvest", dispatchRoute[harvesting.HarvestResource](h))
	commands.POST("/destroy", dispatchRoute[harvesting.DestroyNode](h))
	commands.POST("/clear", dispatchRoute[harvesting.ClearAreaNodes](h))
	commands.POST("/batch", h.batch)

	api := s.Group("/api")
	api.GET("/areas/:area/nodes", h.nodesForArea)
	api.GET("/nodes/:id", h.nodeByID)
	api.GET("/nodes/:id/state", h.nodeState)
	api.GET("/definitions", h.definitions)

	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

func dispatchRoute[C commandbus.Command](h Handler) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		var cmd C
		if err := decodeJSON(ctx, &cmd); err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
			return
		}
		res, err := h.Commands.Dispatch(c, cmd)
		if err != nil {
			h.writeError(ctx, err)
			return
		}
		writeResult(ctx, res)
	}
}

// writeResult maps a failed result to 422 so callers can branch on status
// without parsing the body.
func writeResult(ctx *app.RequestContext, res commandbus.Result) {
	status := consts.StatusOK
	if !res.Success {
		status = consts.StatusUnprocessableEntity
	}
	ctx.JSON(status, res)
}

type batchRequest struct {
	Commands               []batchCommand `json:"commands"`
	StopOnFirstFailure     *bool          `json:"stop_on_first_failure,omitempty"`
	UseTransaction         bool           `json:"use_transaction,omitempty"`
	MaxDegreeOfParallelism int            `json:"max_degree_of_parallelism,omitempty"`
}

type batchCommand struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

var commandDecoders = map[string]func(json.RawMessage) (commandbus.Command, error){
	harvesting.RegisterNode{}.CommandType():    decodeCommand[harvesting.RegisterNode],
	harvesting.HarvestResource{}.CommandType(): decodeCommand[harvesting.HarvestResource],
	harvesting.DestroyNode{}.CommandType():     decodeCommand[harvesting.DestroyNode],
	harvesting.ClearAreaNodes{}.CommandType():  decodeCommand[harvesting.ClearAreaNodes],
}

func decodeCommand[C commandbus.Command](raw json.RawMessage) (commandbus.Command, error) {
	var cmd C
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, err
		}
	}
	return cmd, nil
}

var errUnknownCommandType = errors.New("unknown command type")

func (r batchRequest) toCommands() ([]commandbus.Command, error) {
	out := make([]commandbus.Command, 0, len(r.Commands))
	for _, bc := range r.Commands {
		decode, ok := commandDecoders[strings.TrimSpace(bc.Type)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownCommandType, bc.Type)
		}
		cmd, err := decode(bc.Payload)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}

func (r batchRequest) options(defaultParallelism int) commandbus.BatchExecutionOptions {
	opts := commandbus.DefaultBatchOptions()
	if r.StopOnFirstFailure != nil {
		opts = opts.WithStopOnFirstFailure(*r.StopOnFirstFailure)
	}
	opts = opts.WithTransaction(r.UseTransaction)
	switch {
	case r.MaxDegreeOfParallelism > 0:
		opts = opts.WithMaxDegreeOfParallelism(r.MaxDegreeOfParallelism)
	case defaultParallelism > 0:
		opts = opts.WithMaxDegreeOfParallelism(defaultParallelism)
	}
	return opts
}

func (h Handler) batch(c context.Context, ctx *app.RequestContext) {
	var body batchRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	cmds, err := body.toCommands()
	if err != nil {
		if errors.Is(err, errUnknownCommandType) {
			writeErrorBody(ctx, consts.StatusBadRequest, "unknown_command_type", err.Error())
			return
		}
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_command_payload", err.Error())
		return
	}

	res, err := h.Commands.DispatchBatch(c, cmds, body.options(h.BatchParallelism))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, res)
}

func (h Handler) nodesForArea(c context.Context, ctx *app.RequestContext) {
	area := ctx.Param("area")
	nodes, err := h.Queries.GetNodesForArea(c, area)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"area":  strings.TrimSpace(area),
		"nodes": nodes,
	})
}

func (h Handler) nodeByID(c context.Context, ctx *app.RequestContext) {
	node, err := h.Queries.GetNodeByID(c, ctx.Param("id"))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, node)
}

func (h Handler) nodeState(c context.Context, ctx *app.RequestContext) {
	state, err := h.Queries.GetNodeState(c, ctx.Param("id"))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, state)
}

func (h Handler) definitions(c context.Context, ctx *app.RequestContext) {
	defs, err := h.Queries.ListDefinitions(c)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"definitions": defs})
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (h Handler) writeError(ctx *app.RequestContext, err error) {
	if !writeError(ctx, err) && h.Logger != nil {
		h.Logger.Error(err, "request failed", "path", string(ctx.Path()))
	}
}

// writeError reports whether err was an expected, client-facing error.
func writeError(ctx *app.RequestContext, err error) bool {
	switch {
	case errors.Is(err, harvestquery.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "cancelled", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
		return false
	}
	return true
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
