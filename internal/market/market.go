// Package market runs prediction markets over beliefs using the
// logarithmic market scoring rule. The LMSR market maker quotes a price
// for either side at any time, so traders never wait for a counterparty,
// and the maker's worst-case loss is bounded by the liquidity parameter.
package market

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myklob/reasonrank/internal/model"
)

// Status of a market.
type Status string

const (
	StatusOpen        Status = "open"
	StatusResolvedPro Status = "resolved_pro"
	StatusResolvedCon Status = "resolved_con"
)

// Account holds a trader's virtual currency.
type Account struct {
	ID      string          `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// Trade is one executed buy, the unit of the market ledger.
type Trade struct {
	ID           uuid.UUID       `json:"id"`
	AccountID    string          `json:"account_id"`
	MarketID     string          `json:"market_id"`
	Side         model.Side      `json:"side"`
	Spend        decimal.Decimal `json:"spend"`
	Shares       float64         `json:"shares"`
	PriceAtTrade float64         `json:"price_at_trade"` // pro price before this trade moved it
	CreatedAt    time.Time       `json:"created_at"`
}

// Payout is one winner's share of a market resolution.
type Payout struct {
	AccountID string          `json:"account_id"`
	TradeID   uuid.UUID       `json:"trade_id"`
	Side      model.Side      `json:"side"`
	Shares    float64         `json:"shares"`
	Amount    decimal.Decimal `json:"amount"`
}

// Summary is the public view of a market's state.
type Summary struct {
	MarketID  string  `json:"market_id"`
	BeliefID  string  `json:"belief_id"`
	ProPrice  float64 `json:"pro_price"`
	ConPrice  float64 `json:"con_price"`
	ProShares float64 `json:"pro_shares_outstanding"`
	ConShares float64 `json:"con_shares_outstanding"`
	Liquidity float64 `json:"liquidity"`
	Status    Status  `json:"status"`
}

// marketState is the maker's book for one belief.
type marketState struct {
	id        string
	beliefID  string
	proShares float64
	conShares float64
	liquidity float64
	status    Status
}

// Maker manages accounts, markets and the trade ledger. All methods are
// safe for concurrent use.
type Maker struct {
	mu       sync.Mutex
	cfg      model.MarketConfig
	markets  map[string]*marketState
	accounts map[string]*Account
	trades   map[string][]Trade // market id -> ledger
}

// NewMaker creates a market maker. A nil config uses the defaults.
func NewMaker(cfg *model.MarketConfig) *Maker {
	if cfg == nil {
		defaults := model.DefaultConfig().Market
		cfg = &defaults
	}
	return &Maker{
		cfg:      *cfg,
		markets:  make(map[string]*marketState),
		accounts: make(map[string]*Account),
		trades:   make(map[string][]Trade),
	}
}

// CreateAccount opens a trading account with the configured starting
// balance. Recreating an existing account is an error, not a reset.
func (m *Maker) CreateAccount(id string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		return Account{}, fmt.Errorf("account id must not be empty")
	}
	if _, exists := m.accounts[id]; exists {
		return Account{}, fmt.Errorf("account %s already exists", id)
	}

	account := &Account{
		ID:      id,
		Balance: decimal.NewFromFloat(m.cfg.StartingBalance),
	}
	m.accounts[id] = account
	return *account, nil
}

// Balance returns an account's current balance.
func (m *Maker) Balance(accountID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[accountID]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %s not found", accountID)
	}
	return account.Balance, nil
}

// OpenMarket starts a market for a belief with no outstanding shares, so
// both sides open at price 0.5.
func (m *Maker) OpenMarket(beliefID string) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	liquidity := m.cfg.Liquidity
	if liquidity <= 0 {
		liquidity = 100
	}

	state := &marketState{
		id:        uuid.New().String(),
		beliefID:  beliefID,
		liquidity: liquidity,
		status:    StatusOpen,
	}
	m.markets[state.id] = state
	return m.summary(state), nil
}

// Summary returns the current view of a market.
func (m *Maker) Summary(marketID string) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.markets[marketID]
	if !ok {
		return Summary{}, fmt.Errorf("market %s not found", marketID)
	}
	return m.summary(state), nil
}

// Price returns the instantaneous price for one side of a market, on
// [0,1]. Prices for the two sides always sum to 1. A resolved market
// quotes 1 for the winning side and 0 for the loser.
func (m *Maker) Price(marketID string, side model.Side) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.markets[marketID]
	if !ok {
		return 0, fmt.Errorf("market %s not found", marketID)
	}
	return state.price(side), nil
}

// TradeCost returns the cost of buying n shares of one side at the
// current book: cost(q') - cost(q).
func (m *Maker) TradeCost(marketID string, side model.Side, shares float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.markets[marketID]
	if !ok {
		return 0, fmt.Errorf("market %s not found", marketID)
	}
	return state.tradeCost(side, shares), nil
}

// SharesForSpend inverts the cost function: how many shares of one side a
// given spend buys at the current book. Found by binary search, since the
// cost function has no closed-form inverse.
func (m *Maker) SharesForSpend(marketID string, side model.Side, spend float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.markets[marketID]
	if !ok {
		return 0, fmt.Errorf("market %s not found", marketID)
	}
	return state.sharesForSpend(side, spend), nil
}

// Buy spends from an account to buy shares on one side of a market. The
// trade is recorded in the ledger with the pro price as it stood before
// the trade moved it.
func (m *Maker) Buy(accountID, marketID string, side model.Side, spend decimal.Decimal) (Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[accountID]
	if !ok {
		return Trade{}, fmt.Errorf("account %s not found", accountID)
	}
	state, ok := m.markets[marketID]
	if !ok {
		return Trade{}, fmt.Errorf("market %s not found", marketID)
	}
	if state.status != StatusOpen {
		return Trade{}, fmt.Errorf("market %s is not open for trading", marketID)
	}
	if !spend.IsPositive() {
		return Trade{}, fmt.Errorf("spend must be positive, got %s", spend)
	}
	if account.Balance.LessThan(spend) {
		return Trade{}, fmt.Errorf("insufficient balance: have %s, need %s",
			account.Balance.StringFixed(2), spend.StringFixed(2))
	}

	spendValue, _ := spend.Float64()
	shares := state.sharesForSpend(side, spendValue)
	priceAtTrade := state.price(model.SidePro)

	account.Balance = account.Balance.Sub(spend)
	if side == model.SidePro {
		state.proShares += shares
	} else {
		state.conShares += shares
	}

	trade := Trade{
		ID:           uuid.New(),
		AccountID:    accountID,
		MarketID:     marketID,
		Side:         side,
		Spend:        spend,
		Shares:       shares,
		PriceAtTrade: priceAtTrade,
		CreatedAt:    time.Now().UTC(),
	}
	m.trades[marketID] = append(m.trades[marketID], trade)
	return trade, nil
}

// Trades returns the ledger for a market in execution order.
func (m *Maker) Trades(marketID string) ([]Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.markets[marketID]; !ok {
		return nil, fmt.Errorf("market %s not found", marketID)
	}
	ledger := m.trades[marketID]
	out := make([]Trade, len(ledger))
	copy(out, ledger)
	return out, nil
}

// Resolve settles a market: every share on the winning side pays out 1,
// losing shares pay nothing, and the market closes to further trading.
func (m *Maker) Resolve(marketID string, outcome model.Side) ([]Payout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.markets[marketID]
	if !ok {
		return nil, fmt.Errorf("market %s not found", marketID)
	}
	if state.status != StatusOpen {
		return nil, fmt.Errorf("market %s is already resolved", marketID)
	}

	if outcome == model.SidePro {
		state.status = StatusResolvedPro
	} else {
		state.status = StatusResolvedCon
	}

	var payouts []Payout
	for _, trade := range m.trades[marketID] {
		if trade.Side != outcome {
			continue
		}
		amount := decimal.NewFromFloat(trade.Shares) // 1 per share
		payout := Payout{
			AccountID: trade.AccountID,
			TradeID:   trade.ID,
			Side:      trade.Side,
			Shares:    trade.Shares,
			Amount:    amount,
		}
		if account, ok := m.accounts[trade.AccountID]; ok {
			account.Balance = account.Balance.Add(amount)
		}
		payouts = append(payouts, payout)
	}
	return payouts, nil
}

func (m *Maker) summary(state *marketState) Summary {
	proPrice := state.price(model.SidePro)
	return Summary{
		MarketID:  state.id,
		BeliefID:  state.beliefID,
		ProPrice:  round4(proPrice),
		ConPrice:  round4(1 - proPrice),
		ProShares: state.proShares,
		ConShares: state.conShares,
		Liquidity: state.liquidity,
		Status:    state.status,
	}
}

// price is the instantaneous pro or con price, the partial derivative of
// the cost function. Computed in sigmoid form so large share counts never
// overflow the exponentials.
func (s *marketState) price(side model.Side) float64 {
	switch s.status {
	case StatusResolvedPro:
		if side == model.SidePro {
			return 1.0
		}
		return 0.0
	case StatusResolvedCon:
		if side == model.SideCon {
			return 1.0
		}
		return 0.0
	}

	proPrice := 1.0 / (1.0 + math.Exp((s.conShares-s.proShares)/s.liquidity))
	if side == model.SidePro {
		return proPrice
	}
	return 1.0 - proPrice
}

// cost is the LMSR cost function C(q) = b*ln(e^(qPro/b) + e^(qCon/b)),
// the total the maker has collected at book q. The max term is factored
// out before exponentiating to keep the sum finite for any share counts.
func (s *marketState) cost(proShares, conShares float64) float64 {
	max := math.Max(proShares, conShares)
	return max + s.liquidity*math.Log(
		math.Exp((proShares-max)/s.liquidity)+math.Exp((conShares-max)/s.liquidity))
}

// tradeCost is the cost of moving the book by n shares on one side.
func (s *marketState) tradeCost(side model.Side, shares float64) float64 {
	before := s.cost(s.proShares, s.conShares)
	if side == model.SidePro {
		return s.cost(s.proShares+shares, s.conShares) - before
	}
	return s.cost(s.proShares, s.conShares+shares) - before
}

// sharesForSpend finds by binary search the share count whose cost equals
// the spend. The upper bound assumes no fill below a price of 0.1, which
// holds for any spend that could plausibly reach it.
func (s *marketState) sharesForSpend(side model.Side, spend float64) float64 {
	if spend <= 0 {
		return 0
	}

	lo, hi := 0.0, spend*10
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		if s.tradeCost(side, mid) < spend {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
