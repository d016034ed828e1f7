package surge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surgetrade/surge-go/gateway"
	"github.com/surgetrade/surge-go/oracle"
	"github.com/surgetrade/surge-go/radix"
)

// Environment registry components holding the protocol's deployed addresses.
const (
	MainnetEnvRegistry  = "component_rdx1cr7gxwrvkjfh74f6w5hws7njt9z6ng5uqwdp23x972gx94lfg7cwn4"
	StokenetEnvRegistry = "component_tdx_2_1czj40n6730x4saae7mnpe20htre57rdwvzvnfcuvcusy9s0jn6qqmf"
)

// DefaultFeeLock is the XRD amount locked for fees on each transaction.
const DefaultFeeLock = "10"

// DefaultExpirySeconds is the request expiry used for orders and collateral
// removals, effectively no expiry.
const DefaultExpirySeconds uint64 = 10000000000

// Variables are the protocol's deployed component and resource addresses,
// loaded from the environment registry.
type Variables struct {
	ProtocolResource     radix.Address
	LPResource           radix.Address
	ReferralResource     radix.Address
	RecoveryKeyResource  radix.Address
	BaseResource         radix.Address
	KeeperRewardResource radix.Address
	FeeOathResource      radix.Address

	TokenWrapperComponent       radix.Address
	ConfigComponent             radix.Address
	PoolComponent               radix.Address
	ReferralGeneratorComponent  radix.Address
	PermissionRegistryComponent radix.Address
	OracleComponent             radix.Address
	FeeDistributorComponent     radix.Address
	FeeDelegatorComponent       radix.Address
	ExchangeComponent           radix.Address
	AccountPackage              radix.Address
}

// Exchange is the main interface to the protocol. Call LoadVariables before
// any other operation.
type Exchange struct {
	gateway *gateway.Client
	oracle  *oracle.Client
	logger  *slog.Logger

	envRegistry   radix.Address
	vars          Variables
	feeLock       radix.Decimal
	expirySeconds uint64
}

// Option configures an Exchange.
type Option func(*Exchange)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exchange) {
		e.logger = logger
	}
}

// WithFeeLock overrides the per-transaction fee lock amount.
func WithFeeLock(amount radix.Decimal) Option {
	return func(e *Exchange) {
		e.feeLock = amount
	}
}

// WithExpiry overrides the request expiry in seconds.
func WithExpiry(seconds uint64) Option {
	return func(e *Exchange) {
		e.expirySeconds = seconds
	}
}

// New creates an Exchange against the given environment registry.
func New(gw *gateway.Client, oc *oracle.Client, envRegistry radix.Address, opts ...Option) *Exchange {
	e := &Exchange{
		gateway:       gw,
		oracle:        oc,
		logger:        slog.Default(),
		envRegistry:   envRegistry,
		feeLock:       radix.MustDecimal(DefaultFeeLock),
		expirySeconds: DefaultExpirySeconds,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Variables returns the loaded protocol addresses.
func (e *Exchange) Variables() Variables {
	return e.vars
}

// variableTargets maps registry keys to their Variables fields, in registry
// query order.
func (e *Exchange) variableTargets() []struct {
	name string
	dst  *radix.Address
} {
	return []struct {
		name string
		dst  *radix.Address
	}{
		{"protocol_resource", &e.vars.ProtocolResource},
		{"lp_resource", &e.vars.LPResource},
		{"referral_resource", &e.vars.ReferralResource},
		{"recovery_key_resource", &e.vars.RecoveryKeyResource},
		{"base_resource", &e.vars.BaseResource},
		{"keeper_reward_resource", &e.vars.KeeperRewardResource},
		{"fee_oath_resource", &e.vars.FeeOathResource},
		{"token_wrapper_component", &e.vars.TokenWrapperComponent},
		{"config_component", &e.vars.ConfigComponent},
		{"pool_component", &e.vars.PoolComponent},
		{"referral_generator_component", &e.vars.ReferralGeneratorComponent},
		{"permission_registry_component", &e.vars.PermissionRegistryComponent},
		{"oracle_component", &e.vars.OracleComponent},
		{"fee_distributor_component", &e.vars.FeeDistributorComponent},
		{"fee_delegator_component", &e.vars.FeeDelegatorComponent},
		{"exchange_component", &e.vars.ExchangeComponent},
		{"account_package", &e.vars.AccountPackage},
	}
}

// LoadVariables fetches the protocol's deployed addresses from the
// environment registry.
func (e *Exchange) LoadVariables(ctx context.Context) (Variables, error) {
	targets := e.variableTargets()

	names := make([]radix.Value, 0, len(targets))
	for _, t := range targets {
		names = append(names, radix.Str(t.name))
	}

	builder := radix.NewManifestBuilder()
	builder.CallMethod(e.envRegistry, "get_variables", radix.Array("String", names...))

	result, err := e.preview(ctx, builder)
	if err != nil {
		return Variables{}, fmt.Errorf("load variables: %w", err)
	}

	loaded := make(map[string]string, len(result.Entries))
	for _, entry := range result.Entries {
		loaded[entry.Key.Str()] = entry.Value.Str()
	}

	for _, t := range targets {
		value, ok := loaded[t.name]
		if !ok {
			return Variables{}, fmt.Errorf("load variables: registry has no entry for %q", t.name)
		}
		addr, err := radix.NewAddress(value)
		if err != nil {
			return Variables{}, fmt.Errorf("load variables: %s: %w", t.name, err)
		}
		*t.dst = addr
	}

	e.logger.Debug("protocol variables loaded",
		"exchange_component", e.vars.ExchangeComponent,
		"env_registry", e.envRegistry,
	)

	return e.vars, nil
}

// requireVariables guards operations that need the registry loaded.
func (e *Exchange) requireVariables() error {
	if e.vars.ExchangeComponent.IsZero() {
		return fmt.Errorf("protocol variables not loaded, call LoadVariables first")
	}
	return nil
}

// preview runs a manifest as a transaction preview and returns the first
// method output.
func (e *Exchange) preview(ctx context.Context, builder *radix.ManifestBuilder) (gateway.Value, error) {
	receipt, err := e.gateway.PreviewTransaction(ctx, builder.Build())
	if err != nil {
		return gateway.Value{}, err
	}
	if len(receipt.Output) == 0 {
		return gateway.Value{}, fmt.Errorf("preview returned no output")
	}
	return receipt.Output[len(receipt.Output)-1].ProgrammaticJSON, nil
}

// submit builds, signs, submits, and waits for a manifest to commit.
// Returns the intent hash on success and an error for any terminal status
// other than CommittedSuccess.
func (e *Exchange) submit(ctx context.Context, builder *radix.ManifestBuilder, key *radix.PrivateKey) (string, error) {
	payloadHex, intentHash, err := e.gateway.BuildTransaction(ctx, builder.Build(), key)
	if err != nil {
		return "", err
	}

	resp, err := e.gateway.SubmitTransaction(ctx, payloadHex)
	if err != nil {
		return "", err
	}
	if resp.Duplicate {
		e.logger.Warn("transaction already submitted", "intent", intentHash)
	}

	e.logger.Debug("transaction submitted", "intent", intentHash)

	status, err := e.gateway.TransactionStatus(ctx, intentHash)
	if err != nil {
		return "", err
	}
	if status != gateway.StatusCommittedSuccess {
		return "", fmt.Errorf("transaction %s: %s", intentHash, status)
	}

	return intentHash, nil
}

// badgeRule derives the signature badge rule for a public key on this
// network.
func (e *Exchange) badgeRule(ctx context.Context, pub radix.PublicKey) (string, error) {
	cfg, err := e.gateway.NetworkConfiguration(ctx)
	if err != nil {
		return "", err
	}
	return radix.VirtualBadge(cfg.Ed25519VirtualBadge, pub), nil
}

// accessRule wraps a badge rule in the protocol's access rule structure: a
// Protected(ProofRule(Require(NonFungible))) requirement.
func accessRule(rule string) radix.Value {
	return radix.Enum(2,
		radix.Enum(0,
			radix.Enum(0,
				radix.Enum(0,
					radix.NonFungibleGlobalID(rule),
				),
			),
		),
	)
}
