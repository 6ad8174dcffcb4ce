package constants

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestMethodIDMatchesKeccakPrefix(t *testing.T) {
	signatures := []string{
		SigOwner,
		SigIsAdmin,
		SigIsExecutor,
		SigExternalCall,
		SigDelegateCall,
		SigStorageLoad,
		SigAddAdmin,
		SigAddExecutorWithoutSignature,
		SigMetaDelegateCall,
		SigDeployAndExecute,
		SigTestTransferNative,
	}
	seen := make(map[[SelectorLength]byte]string)
	for _, sig := range signatures {
		id := MethodID(sig)
		assert.Equal(t, crypto.Keccak256([]byte(sig))[:SelectorLength], id[:], sig)
		if prev, dup := seen[id]; dup {
			t.Fatalf("selector collision: %s vs %s", prev, sig)
		}
		seen[id] = sig
	}
}

func TestReservedSlotsDoNotCollide(t *testing.T) {
	members := []common.Address{
		{},
		common.HexToAddress("0x01"),
		common.HexToAddress("0xdeadbeef"),
	}

	seen := map[common.Hash]bool{
		SlotOwner:          true,
		SlotImplementation: true,
	}
	assert.NotEqual(t, SlotOwner, SlotImplementation)

	for _, m := range members {
		for _, slot := range []common.Hash{AdminSlot(m), ExecutorSlot(m)} {
			assert.False(t, seen[slot], "reserved slot collision at %s", slot.Hex())
			seen[slot] = true
		}
	}

	// 成员槽对成员地址敏感
	assert.NotEqual(t, AdminSlot(members[1]), AdminSlot(members[2]))
	assert.NotEqual(t, ExecutorSlot(members[1]), ExecutorSlot(members[2]))
}
