package http

import (
	"encoding/hex"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/proxykit/v1/internal/api/service"
	"github.com/proxykit/v1/pkg/types"
)

// handlers REST处理器集合
type handlers struct {
	svc *service.AccountService
}

func newHandlers(svc *service.AccountService) *handlers {
	return &handlers{svc: svc}
}

func decodeHex(s string) ([]byte, bool) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, true
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return data, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"chain_id": uint64(h.svc.ChainID()),
	})
}

func (h *handlers) accountInfo(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		badRequest(c, "invalid address")
		return
	}
	c.JSON(http.StatusOK, h.svc.AccountInfo(common.HexToAddress(address)))
}

func (h *handlers) storageLoad(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		badRequest(c, "invalid address")
		return
	}
	keyBytes, ok := decodeHex(c.Param("key"))
	if !ok {
		badRequest(c, "invalid storage key")
		return
	}
	value := h.svc.StorageLoad(common.HexToAddress(address), types.BytesToWord(keyBytes))
	c.JSON(http.StatusOK, gin.H{"value": value.Hex()})
}

type descriptorRequest struct {
	Owner string `json:"owner" binding:"required"`
	Salt  string `json:"salt"`
}

func (h *handlers) descriptor(req descriptorRequest) (types.DeploymentDescriptor, string) {
	if !common.IsHexAddress(req.Owner) {
		return types.DeploymentDescriptor{}, "invalid owner address"
	}
	saltBytes, ok := decodeHex(req.Salt)
	if !ok {
		return types.DeploymentDescriptor{}, "invalid salt"
	}
	return h.svc.DefaultDescriptor(common.HexToAddress(req.Owner), types.BytesToWord(saltBytes)), ""
}

func (h *handlers) computeAddress(c *gin.Context) {
	var req descriptorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	desc, errMsg := h.descriptor(req)
	if errMsg != "" {
		badRequest(c, errMsg)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": h.svc.ComputeAddress(desc).Hex()})
}

func (h *handlers) deploy(c *gin.Context) {
	var req descriptorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	desc, errMsg := h.descriptor(req)
	if errMsg != "" {
		badRequest(c, errMsg)
		return
	}

	addr, err := h.svc.Deploy(c.Request.Context(), desc)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr.Hex()})
}

type submitCallRequest struct {
	Caller  string `json:"caller" binding:"required"`
	Target  string `json:"target" binding:"required"`
	Value   string `json:"value"`
	Payload string `json:"payload"`
}

func (h *handlers) submitCall(c *gin.Context) {
	var req submitCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !common.IsHexAddress(req.Caller) || !common.IsHexAddress(req.Target) {
		badRequest(c, "invalid caller or target address")
		return
	}
	payload, ok := decodeHex(req.Payload)
	if !ok {
		badRequest(c, "invalid payload")
		return
	}

	value := new(big.Int)
	if req.Value != "" {
		if _, ok := value.SetString(req.Value, 10); !ok {
			badRequest(c, "invalid value")
			return
		}
	}

	output, err := h.svc.SubmitCall(c.Request.Context(), common.HexToAddress(req.Caller), types.CallRecord{
		Target:  common.HexToAddress(req.Target),
		Value:   value,
		Payload: payload,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": "0x" + hex.EncodeToString(output)})
}

type metaCallRequest struct {
	Relayer      string `json:"relayer" binding:"required"`
	Account      string `json:"account" binding:"required"`
	Target       string `json:"target" binding:"required"`
	SignedData   string `json:"signed_data"`
	UnsignedData string `json:"unsigned_data"`
	Signature    string `json:"signature" binding:"required"`
}

func (h *handlers) metaDelegateCall(c *gin.Context) {
	var req metaCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !common.IsHexAddress(req.Relayer) || !common.IsHexAddress(req.Account) || !common.IsHexAddress(req.Target) {
		badRequest(c, "invalid relayer, account or target address")
		return
	}

	signedData, ok := decodeHex(req.SignedData)
	if !ok {
		badRequest(c, "invalid signed_data")
		return
	}
	unsignedData, ok := decodeHex(req.UnsignedData)
	if !ok {
		badRequest(c, "invalid unsigned_data")
		return
	}
	sig, ok := decodeHex(req.Signature)
	if !ok {
		badRequest(c, "invalid signature")
		return
	}

	output, err := h.svc.MetaDelegateCall(c.Request.Context(), common.HexToAddress(req.Relayer), common.HexToAddress(req.Account), types.MetaCall{
		Target:       common.HexToAddress(req.Target),
		SignedData:   signedData,
		UnsignedData: unsignedData,
		Signature:    sig,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": "0x" + hex.EncodeToString(output)})
}

type deployAndExecuteRequest struct {
	Executor string `json:"executor" binding:"required"`
	Owner    string `json:"owner" binding:"required"`
	Salt     string `json:"salt"`
	Payload  string `json:"payload"`
}

func (h *handlers) deployAndExecute(c *gin.Context) {
	var req deployAndExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !common.IsHexAddress(req.Executor) {
		badRequest(c, "invalid executor address")
		return
	}
	desc, errMsg := h.descriptor(descriptorRequest{Owner: req.Owner, Salt: req.Salt})
	if errMsg != "" {
		badRequest(c, errMsg)
		return
	}
	payload, ok := decodeHex(req.Payload)
	if !ok {
		badRequest(c, "invalid payload")
		return
	}

	output, err := h.svc.DeployAndExecute(c.Request.Context(), common.HexToAddress(req.Executor), desc, payload)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": "0x" + hex.EncodeToString(output)})
}
