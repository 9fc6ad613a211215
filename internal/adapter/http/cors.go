package httpadapter

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Commands are POSTs and queries are GETs; browsers only ever need to send a
// JSON body.
var corsHeaders = [][2]string{
	{"Access-Control-Allow-Methods", "GET,POST,OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type"},
	{"Access-Control-Max-Age", "600"},
}

// corsMiddleware answers preflight requests itself. With an empty origin it
// is a pass-through.
func corsMiddleware(origin string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if origin == "" {
			ctx.Next(c)
			return
		}
		ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
		for _, kv := range corsHeaders {
			ctx.Response.Header.Set(kv[0], kv[1])
		}
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
