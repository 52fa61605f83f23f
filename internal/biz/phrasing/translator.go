package phrasing

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"negotiation_seller_agent/internal/biz/common"
	"negotiation_seller_agent/internal/biz/pricing"
	"negotiation_seller_agent/internal/conf"
)

//go:embed phrases.yaml
var defaultPhrases []byte

// PhraseBank holds the phrases bids are rendered with
type PhraseBank struct {
	Rejection         []string            `yaml:"rejection"`
	Acceptance        []string            `yaml:"acceptance"`
	ConfirmAcceptance []string            `yaml:"confirm_acceptance"`
	Multi             []string            `yaml:"multi"`
	Goods             map[string][]string `yaml:"goods"`
	Canned            map[string]string   `yaml:"canned"`
}

// ParsePhraseBank decodes a YAML phrase bank
func ParsePhraseBank(data []byte) (*PhraseBank, error) {
	var bank PhraseBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse phrase bank: %w", err)
	}
	return &bank, nil
}

// DefaultPhraseBank returns the built-in phrase bank
func DefaultPhraseBank() *PhraseBank {
	bank, err := ParsePhraseBank(defaultPhrases)
	if err != nil {
		panic(err)
	}
	return bank
}

// merge fills anything missing from b with the defaults in d
func (b *PhraseBank) merge(d *PhraseBank) {
	if len(b.Rejection) == 0 {
		b.Rejection = d.Rejection
	}
	if len(b.Acceptance) == 0 {
		b.Acceptance = d.Acceptance
	}
	if len(b.ConfirmAcceptance) == 0 {
		b.ConfirmAcceptance = d.ConfirmAcceptance
	}
	if len(b.Multi) == 0 {
		b.Multi = d.Multi
	}
	if b.Goods == nil {
		b.Goods = make(map[string][]string)
	}
	for good, phrases := range d.Goods {
		if _, ok := b.Goods[good]; !ok {
			b.Goods[good] = phrases
		}
	}
	if b.Canned == nil {
		b.Canned = make(map[string]string)
	}
	for key, text := range d.Canned {
		if _, ok := b.Canned[key]; !ok {
			b.Canned[key] = text
		}
	}
}

// Translator renders bids as English text with some randomized phrasing
type Translator struct {
	bank   *PhraseBank
	rnd    pricing.RandomSource
	logger *zap.Logger
}

// NewTranslator creates a translator over the given bank
func NewTranslator(bank *PhraseBank, rnd pricing.RandomSource, logger *zap.Logger) *Translator {
	if bank == nil {
		bank = DefaultPhraseBank()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{
		bank:   bank,
		rnd:    rnd,
		logger: logger.Named("phrasing"),
	}
}

// NewTranslatorFromConfig loads the configured phrase file, if any, over the defaults
func NewTranslatorFromConfig(c *conf.Agent, rnd pricing.RandomSource, logger *zap.Logger) (*Translator, error) {
	bank := DefaultPhraseBank()
	if c != nil && c.PhrasesFile != "" {
		data, err := os.ReadFile(c.PhrasesFile)
		if err != nil {
			return nil, common.WrapError(err, common.ErrorCodeInvalidConfiguration, "Failed to read phrases file")
		}
		custom, err := ParsePhraseBank(data)
		if err != nil {
			return nil, common.WrapError(err, common.ErrorCodeInvalidConfiguration, "Failed to parse phrases file")
		}
		custom.merge(bank)
		bank = custom
	}
	return NewTranslator(bank, rnd, logger), nil
}

// TranslateBid renders a bid. confirm selects the phrasing used when the
// agent confirms a buyer's acceptance of its own offer.
func (t *Translator) TranslateBid(bid *common.Bid, confirm bool) string {
	if bid == nil {
		return ""
	}

	switch bid.Type {
	case common.BidSellOffer:
		var sb strings.Builder
		sb.WriteString("How about if I sell you")
		sb.WriteString(listGoods(bid.Quantity))
		sb.WriteString(" for " + formatPrice(bid.Price) + ". ")
		if len(bid.Quantity) > 1 {
			sb.WriteString(t.selectMessage(t.bank.Multi))
		} else {
			for good := range bid.Quantity {
				sb.WriteString(t.selectMessage(t.bank.Goods[good]))
			}
		}
		return sb.String()

	case common.BidCakeBundleOffer:
		cakes := bid.Quantity["egg"] / common.CakeRecipe["egg"]
		return fmt.Sprintf("Why not bundle that into %d cakes. In total I'll sell you%s for %s.",
			cakes, listGoods(bid.Quantity), formatPrice(bid.Price))

	case common.BidReject:
		return t.selectMessage(t.bank.Rejection)

	case common.BidAccept:
		phrases := t.bank.Acceptance
		if confirm {
			phrases = t.bank.ConfirmAcceptance
		}
		return t.selectMessage(phrases) + listGoods(bid.Quantity) + " for " + formatPrice(bid.Price) + "."

	default:
		t.logger.Warn("No phrasing for bid type", zap.String("bid_type", string(bid.Type)))
		return ""
	}
}

// Canned renders a fixed reply; args fill its placeholders
func (t *Translator) Canned(reply common.CannedReply, args ...interface{}) string {
	text, ok := t.bank.Canned[string(reply)]
	if !ok {
		t.logger.Warn("Missing canned reply", zap.String("reply", string(reply)))
		return ""
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

// selectMessage picks a phrase at random
func (t *Translator) selectMessage(phrases []string) string {
	if len(phrases) == 0 {
		return ""
	}
	idx := int(t.rnd.Float64() * float64(len(phrases)))
	if idx >= len(phrases) {
		idx = len(phrases) - 1
	}
	return phrases[idx]
}

// listGoods renders " 2 egg 1 milk", goods in name order
func listGoods(quantity map[string]int) string {
	goods := make([]string, 0, len(quantity))
	for good := range quantity {
		goods = append(goods, good)
	}
	sort.Strings(goods)

	var sb strings.Builder
	for _, good := range goods {
		sb.WriteString(" " + strconv.Itoa(quantity[good]) + " " + good)
	}
	return sb.String()
}

func formatPrice(p *common.Price) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64) + " " + p.Unit
}
