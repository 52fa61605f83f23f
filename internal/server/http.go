package server

import (
	"encoding/json"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"negotiation_seller_agent/internal/conf"
	"negotiation_seller_agent/internal/service"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, negotiation *service.NegotiationService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Network != "" {
			opts = append(opts, http.Network(c.Http.Network))
		}
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout.Duration > 0 {
			opts = append(opts, http.Timeout(c.Http.Timeout.Duration))
		}
	}
	srv := http.NewServer(opts...)
	registerNegotiationRoutes(srv, negotiation)

	// Add debug endpoints for agent inspection
	addDebugEndpoints(srv, negotiation, logger)

	return srv
}

// registerNegotiationRoutes wires the orchestrator facing endpoints
func registerNegotiationRoutes(srv *http.Server, s *service.NegotiationService) {
	r := srv.Route("/")
	r.POST("/setUtility", s.SetUtility)
	r.POST("/startRound", s.StartRound)
	r.POST("/endRound", s.EndRound)
	r.POST("/receiveMessage", s.ReceiveMessage)
	r.POST("/receiveRejection", s.ReceiveRejection)
}

// addDebugEndpoints adds endpoints for looking inside the agent
func addDebugEndpoints(srv *http.Server, s *service.NegotiationService, logger log.Logger) {
	helper := log.NewHelper(logger)

	r := srv.Route("/")
	r.GET("/classifyMessage", s.ClassifyText)
	r.POST("/classifyMessage", s.ClassifyMessage)
	r.POST("/extractBid", s.ExtractBid)
	r.GET("/reportUtility", s.ReportUtility)
	r.GET("/debug/state", s.ReportState)

	// Health check endpoint
	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		helper.Debug("Served health check")
	})
}
