package engine

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
)

// ProgramRegistry 程序注册表实现
//
// 程序以 keccak256(code) 为键路由；模板额外按初始化码前缀匹配，
// 初始化码 = 模板代码 ++ 构造参数。
type ProgramRegistry struct {
	mu sync.RWMutex

	programs  map[common.Hash]engineiface.Program
	templates []engineiface.Template

	hasher cryptoiface.HashManager
}

var _ engineiface.Registry = (*ProgramRegistry)(nil)

// NewRegistry 创建程序注册表
func NewRegistry(hasher cryptoiface.HashManager) *ProgramRegistry {
	return &ProgramRegistry{
		programs: make(map[common.Hash]engineiface.Program),
		hasher:   hasher,
	}
}

// RegisterProgram 注册程序
func (r *ProgramRegistry) RegisterProgram(code []byte, program engineiface.Program) error {
	if len(code) == 0 {
		return fmt.Errorf("register program: empty code")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	codeHash := r.hasher.Keccak256Hash(code)
	if _, exists := r.programs[codeHash]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProgram, codeHash.Hex())
	}
	r.programs[codeHash] = program
	return nil
}

// RegisterTemplate 注册可部署模板
func (r *ProgramRegistry) RegisterTemplate(template engineiface.Template) error {
	if err := r.RegisterProgram(template.Code(), template); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates = append(r.templates, template)
	return nil
}

// ProgramByCodeHash 按代码哈希查找程序
func (r *ProgramRegistry) ProgramByCodeHash(codeHash common.Hash) (engineiface.Program, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	program, ok := r.programs[codeHash]
	return program, ok
}

// TemplateByInitCode 按初始化码前缀匹配模板
//
// 多个模板可能同时是前缀时取最长匹配，保证参数切分唯一。
func (r *ProgramRegistry) TemplateByInitCode(initCode []byte) (engineiface.Template, []byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best engineiface.Template
	bestLen := -1
	for _, template := range r.templates {
		code := template.Code()
		if len(code) > bestLen && bytes.HasPrefix(initCode, code) {
			best = template
			bestLen = len(code)
		}
	}
	if best == nil {
		return nil, nil, false
	}

	args := make([]byte, len(initCode)-bestLen)
	copy(args, initCode[bestLen:])
	return best, args, true
}
