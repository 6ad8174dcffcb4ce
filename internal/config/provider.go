// Package config 配置装配层
//
// 📋 **配置加载流程**
//  1. 从JSON配置文件解析 types.AppConfig（字段全部为指针，未出现即为nil）
//  2. 各子系统配置包以 New(userConfig) 合并默认值与用户覆盖
//  3. Provider 聚合全部子配置，作为依赖注入的单一来源
package config

import (
	"encoding/json"
	"fmt"
	"os"

	apiconfig "github.com/proxykit/v1/internal/config/api"
	chainconfig "github.com/proxykit/v1/internal/config/chain"
	logconfig "github.com/proxykit/v1/internal/config/log"
	badgerconfig "github.com/proxykit/v1/internal/config/storage/badger"
	"github.com/proxykit/v1/pkg/types"
)

// Provider 聚合各子系统配置
type Provider struct {
	Log     *logconfig.Config
	Storage *badgerconfig.Config
	Chain   *chainconfig.Config
	API     *apiconfig.Config
}

// LoadAppConfig 从JSON文件加载应用配置
//
// 文件不存在不是错误，返回空配置（全部采用默认值）。
func LoadAppConfig(path string) (*types.AppConfig, error) {
	if path == "" {
		return &types.AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &types.AppConfig{}, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg types.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// NewProvider 构建配置聚合器
func NewProvider(appConfig *types.AppConfig) *Provider {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}

	return &Provider{
		Log:     logconfig.New(appConfig.Log),
		Storage: badgerconfig.New(appConfig.Storage),
		Chain:   chainconfig.New(appConfig.Chain),
		API:     apiconfig.New(appConfig.API),
	}
}
