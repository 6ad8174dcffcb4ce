// Package http 基于gin的REST API服务
//
// 📋 **路由**
//   - GET  /health                     健康检查
//   - GET  /v1/accounts/:address       账户状态视图
//   - GET  /v1/accounts/:address/storage/:key 存储槽查询
//   - POST /v1/accounts/compute-address 地址推导
//   - POST /v1/accounts/deploy          账户部署
//   - POST /v1/calls                    提交调用
//   - POST /v1/meta-calls               提交元委托调用
//   - POST /v1/bundler/deploy-and-execute 原子部署并执行
//   - POST /rpc                         JSON-RPC 2.0 入口
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proxykit/v1/internal/api/jsonrpc"
	"github.com/proxykit/v1/internal/api/service"
	apiconfig "github.com/proxykit/v1/internal/config/api"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
)

// Server REST API服务器
type Server struct {
	httpServer *http.Server
	logger     logiface.Logger
	listenAddr string
}

// NewServer 创建REST服务器并装配路由
func NewServer(
	cfg *apiconfig.Config,
	svc *service.AccountService,
	rpcServer *jsonrpc.Server,
	rpcMethods *jsonrpc.Methods,
	logger logiface.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handlers := newHandlers(svc)

	router.GET("/health", handlers.health)

	v1 := router.Group("/v1")
	{
		v1.GET("/accounts/:address", handlers.accountInfo)
		v1.GET("/accounts/:address/storage/:key", handlers.storageLoad)
		v1.POST("/accounts/compute-address", handlers.computeAddress)
		v1.POST("/accounts/deploy", handlers.deploy)
		v1.POST("/calls", handlers.submitCall)
		v1.POST("/meta-calls", handlers.metaDelegateCall)
		v1.POST("/bundler/deploy-and-execute", handlers.deployAndExecute)
	}

	rpcMethods.Register(rpcServer)
	router.POST("/rpc", gin.WrapH(rpcServer))

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.GetListenAddr(),
			Handler: router,
		},
		logger:     logger,
		listenAddr: cfg.GetListenAddr(),
	}
}

// Start 启动HTTP服务（非阻塞）
func (s *Server) Start() {
	go func() {
		s.logger.Infof("API server listening on %s", s.listenAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("API server stopped unexpectedly: %v", err)
		}
	}()
}

// Stop 优雅关闭
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
