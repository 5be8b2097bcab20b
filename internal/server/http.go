package server

import (
	"context"
	nethttp "net/http"

	"household-ledger/internal/conf"
	"household-ledger/internal/constants"
	"household-ledger/internal/service"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(c *conf.Bootstrap, ledger LedgerHandler) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Server != nil && c.Server.Http != nil {
		if c.Server.Http.Network != "" {
			opts = append(opts, http.Network(c.Server.Http.Network))
		}
		if c.Server.Http.Addr != "" {
			opts = append(opts, http.Address(c.Server.Http.Addr))
		}
		if c.Server.Http.Timeout != nil {
			opts = append(opts, http.Timeout(c.Server.Http.Timeout.AsDuration()))
		}
	}
	srv := http.NewServer(opts...)
	srv.Handle("/metrics", promhttp.Handler())
	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	registerLedgerRoutes(srv, ledger)
	return srv
}

// LedgerHandler 回填与限额接口的处理者
type LedgerHandler interface {
	StartSweep(domain string) (*service.SweepAccepted, error)
	RefreshSafeLimit(ctx context.Context, userID string) (*service.SafeLimitReply, error)
}

// registerLedgerRoutes 注册回填与限额接口
// 回填在后台执行，接口立即返回 202
//
//	POST /v1/sweeps            全量回填
//	POST /v1/sweeps/{domain}   回填单个领域，all 为全量
//	POST /v1/users/{user_id}/safe-limit
func registerLedgerRoutes(srv *http.Server, h LedgerHandler) {
	r := srv.Route("/")
	r.POST("/v1/sweeps", func(ctx http.Context) error {
		reply, err := h.StartSweep(constants.DomainAll)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusAccepted, reply)
	})
	r.POST("/v1/sweeps/{domain}", func(ctx http.Context) error {
		reply, err := h.StartSweep(ctx.Vars().Get("domain"))
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusAccepted, reply)
	})
	r.POST("/v1/users/{user_id}/safe-limit", func(ctx http.Context) error {
		reply, err := h.RefreshSafeLimit(ctx, ctx.Vars().Get("user_id"))
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, reply)
	})
}
