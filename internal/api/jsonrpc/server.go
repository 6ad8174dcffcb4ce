// Package jsonrpc JSON-RPC 2.0 API服务
//
// 📋 **方法族**
// 账户引擎的全部入口以 pxk_ 前缀的JSON-RPC方法暴露：
// 查询类（computeAddress/accountInfo/storageLoad）不触碰状态，
// 变更类（deploy/submitCall/metaDelegateCall/deployAndExecute）
// 成功即提交账本。
package jsonrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// MethodHandler JSON-RPC方法处理器
type MethodHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// JSON-RPC 2.0 标准错误码（规范约定）
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603

	// -32000 ~ -32099 预留给实现方自定义 Server error
	codeServerError = -32000
)

// Server JSON-RPC 2.0 服务器
type Server struct {
	logger  *zap.Logger
	methods map[string]MethodHandler
}

// NewServer 创建JSON-RPC服务器
func NewServer(logger *zap.Logger) *Server {
	return &Server{
		logger:  logger,
		methods: make(map[string]MethodHandler),
	}
}

// RegisterMethod 注册JSON-RPC方法
func (s *Server) RegisterMethod(method string, handler MethodHandler) {
	s.methods[method] = handler
}

// ServeHTTP 处理HTTP请求
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("JSON-RPC handler panic recovered",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			s.writeError(w, nil, codeInternalError, "internal server error", nil)
		}
	}()

	if r.Method != http.MethodPost {
		s.writeError(w, nil, codeInvalidRequest, "only POST method is allowed", nil)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, nil, codeParseError, "failed to parse JSON request", err.Error())
		return
	}

	if req.JSONRPC != "2.0" {
		s.writeError(w, req.ID, codeInvalidRequest, "jsonrpc field must be '2.0'", nil)
		return
	}

	handler, ok := s.methods[req.Method]
	if !ok {
		s.writeError(w, req.ID, codeMethodNotFound, "method not found: "+req.Method, nil)
		return
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		s.logger.Debug("JSON-RPC method failed",
			zap.String("method", req.Method),
			zap.Error(err),
		)
		s.writeError(w, req.ID, codeServerError, err.Error(), nil)
		return
	}

	s.writeResult(w, req.ID, result)
}

func (s *Server) writeResult(w http.ResponseWriter, id, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	})
}

func (s *Server) writeError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	})
}
