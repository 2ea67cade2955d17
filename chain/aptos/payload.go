package aptos

import (
	"encoding/json"
	"fmt"

	transactionbuilder "github.com/coming-chat/go-aptos/transaction_builder"
	"github.com/coming-chat/lcs"
	"github.com/cordialsys/resource-deployer/client/errors"
	"github.com/cordialsys/resource-deployer/pkg/hex"
)

const (
	ResourceAccountModule      = "0x1::resource_account"
	CreateAndPublishFunction   = "create_resource_account_and_publish_package"
	CreateAndPublishFunctionId = ResourceAccountModule + "::" + CreateAndPublishFunction

	EntryFunctionPayloadType = "entry_function_payload"

	// max_transaction_size_in_bytes for non-governance transactions
	DefaultMaxPayloadSize = 64 * 1024
)

// PublishPayload is a call to 0x1::resource_account::create_resource_account_and_publish_package.
// It carries no sender, sequence number or signature.
type PublishPayload struct {
	Seed     []byte
	Metadata []byte
	Modules  [][]byte
}

// EntryFunctionPayload is the JSON shape the Aptos REST API and wallets use for entry function calls
type EntryFunctionPayload struct {
	Type          string        `json:"type"`
	Function      string        `json:"function"`
	TypeArguments []string      `json:"type_arguments"`
	Arguments     []interface{} `json:"arguments"`
}

// NewPublishPayload assembles the payload. A maxSize <= 0 applies DefaultMaxPayloadSize.
func NewPublishPayload(seed []byte, metadata []byte, modules [][]byte, maxSize int) (*PublishPayload, error) {
	if len(metadata) == 0 {
		return nil, errors.MetadataExtractionFailedf("package metadata is empty")
	}
	if seed == nil {
		seed = []byte{}
	}
	if modules == nil {
		modules = [][]byte{}
	}
	payload := &PublishPayload{
		Seed:     seed,
		Metadata: metadata,
		Modules:  modules,
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxPayloadSize
	}
	if size := payload.Size(); size > maxSize {
		return nil, errors.PayloadTooLargef("payload is %d bytes, limit is %d bytes (%d modules)", size, maxSize, len(modules))
	}
	return payload, nil
}

// Arguments returns the BCS encoded arguments, in call order: seed, metadata, code.
func (p *PublishPayload) Arguments() ([][]byte, error) {
	seedArg, err := lcs.Marshal(p.Seed)
	if err != nil {
		return nil, fmt.Errorf("could not serialize seed: %v", err)
	}
	metadataArg, err := lcs.Marshal(p.Metadata)
	if err != nil {
		return nil, fmt.Errorf("could not serialize metadata: %v", err)
	}
	modules := p.Modules
	if modules == nil {
		modules = [][]byte{}
	}
	codeArg, err := lcs.Marshal(modules)
	if err != nil {
		return nil, fmt.Errorf("could not serialize code: %v", err)
	}
	return [][]byte{seedArg, metadataArg, codeArg}, nil
}

// EntryFunction returns the payload in the form embedded in a RawTransaction
func (p *PublishPayload) EntryFunction() (transactionbuilder.TransactionPayloadEntryFunction, error) {
	moduleId, err := transactionbuilder.NewModuleIdFromString(ResourceAccountModule)
	if err != nil {
		return transactionbuilder.TransactionPayloadEntryFunction{}, err
	}
	args, err := p.Arguments()
	if err != nil {
		return transactionbuilder.TransactionPayloadEntryFunction{}, err
	}
	return transactionbuilder.TransactionPayloadEntryFunction{
		ModuleName:   *moduleId,
		FunctionName: CreateAndPublishFunction,
		TyArgs:       []transactionbuilder.TypeTag{},
		Args:         args,
	}, nil
}

// JSON returns the payload in the form returned over HTTP and signed by browser wallets
func (p *PublishPayload) JSON() *EntryFunctionPayload {
	code := make([]hex.Hex, len(p.Modules))
	for i, module := range p.Modules {
		code[i] = hex.Hex(module)
	}
	return &EntryFunctionPayload{
		Type:          EntryFunctionPayloadType,
		Function:      CreateAndPublishFunctionId,
		TypeArguments: []string{},
		Arguments: []interface{}{
			hex.Hex(p.Seed),
			hex.Hex(p.Metadata),
			code,
		},
	}
}

// Size is the length of the BCS encoded TransactionPayload::EntryFunction
func (p *PublishPayload) Size() int {
	size := 1 // payload variant
	size += AddressLength + ulebLen(len("resource_account")) + len("resource_account")
	size += ulebLen(len(CreateAndPublishFunction)) + len(CreateAndPublishFunction)
	size += 1 // no type args
	size += 1 // 3 args
	seedArg := ulebLen(len(p.Seed)) + len(p.Seed)
	metadataArg := ulebLen(len(p.Metadata)) + len(p.Metadata)
	codeArg := ulebLen(len(p.Modules))
	for _, module := range p.Modules {
		codeArg += ulebLen(len(module)) + len(module)
	}
	for _, arg := range []int{seedArg, metadataArg, codeArg} {
		size += ulebLen(arg) + arg
	}
	return size
}

func ulebLen(n int) int {
	size := 1
	for n >= 0x80 {
		n >>= 7
		size++
	}
	return size
}

// DecodeEntryFunctionArguments recovers the logical arguments from the BCS form
func DecodeEntryFunctionArguments(payload transactionbuilder.TransactionPayloadEntryFunction) (*PublishPayload, error) {
	if string(payload.FunctionName) != CreateAndPublishFunction || string(payload.ModuleName.Name) != "resource_account" {
		return nil, fmt.Errorf("unexpected entry function %s::%s", payload.ModuleName.Name, payload.FunctionName)
	}
	if len(payload.Args) != 3 {
		return nil, fmt.Errorf("expected 3 arguments, got %d", len(payload.Args))
	}
	decoded := &PublishPayload{}
	if err := lcs.Unmarshal(payload.Args[0], &decoded.Seed); err != nil {
		return nil, fmt.Errorf("invalid seed argument: %v", err)
	}
	if err := lcs.Unmarshal(payload.Args[1], &decoded.Metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata argument: %v", err)
	}
	if err := lcs.Unmarshal(payload.Args[2], &decoded.Modules); err != nil {
		return nil, fmt.Errorf("invalid code argument: %v", err)
	}
	normalize(decoded)
	return decoded, nil
}

type entryFunctionPayloadJSON struct {
	Type          string            `json:"type"`
	Function      string            `json:"function"`
	TypeArguments []string          `json:"type_arguments"`
	Arguments     []json.RawMessage `json:"arguments"`
}

// DecodeJSONArguments recovers the logical arguments from the JSON form
func DecodeJSONArguments(data []byte) (*PublishPayload, error) {
	var payload entryFunctionPayloadJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload.Function != CreateAndPublishFunctionId {
		return nil, fmt.Errorf("unexpected entry function %s", payload.Function)
	}
	if len(payload.TypeArguments) != 0 {
		return nil, fmt.Errorf("expected no type arguments, got %d", len(payload.TypeArguments))
	}
	if len(payload.Arguments) != 3 {
		return nil, fmt.Errorf("expected 3 arguments, got %d", len(payload.Arguments))
	}
	var seed, metadata hex.Hex
	var code []hex.Hex
	if err := json.Unmarshal(payload.Arguments[0], &seed); err != nil {
		return nil, fmt.Errorf("invalid seed argument: %v", err)
	}
	if err := json.Unmarshal(payload.Arguments[1], &metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata argument: %v", err)
	}
	if err := json.Unmarshal(payload.Arguments[2], &code); err != nil {
		return nil, fmt.Errorf("invalid code argument: %v", err)
	}
	if code == nil {
		return nil, fmt.Errorf("code argument must be a vector")
	}
	decoded := &PublishPayload{
		Seed:     seed,
		Metadata: metadata,
		Modules:  make([][]byte, len(code)),
	}
	for i, module := range code {
		decoded.Modules[i] = module
	}
	normalize(decoded)
	return decoded, nil
}

// empty and nil byte strings are the same argument on chain
func normalize(p *PublishPayload) {
	if p.Seed == nil {
		p.Seed = []byte{}
	}
	if p.Metadata == nil {
		p.Metadata = []byte{}
	}
	if p.Modules == nil {
		p.Modules = [][]byte{}
	}
	for i := range p.Modules {
		if p.Modules[i] == nil {
			p.Modules[i] = []byte{}
		}
	}
}
