package negotiation

import (
	"fmt"

	"go.uber.org/zap"

	"negotiation_seller_agent/internal/biz/common"
	"negotiation_seller_agent/internal/biz/pricing"
)

// Dispatcher routes an interpretation, by speaker, role and type, to a
// pricing decision or a canned reply, and keeps the bid history current.
// A nil message with a nil error means the agent stays silent.
type Dispatcher struct {
	nc      *NegotiationContext
	engine  *pricing.Engine
	phraser Phraser
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher over a negotiation context
func NewDispatcher(nc *NegotiationContext, engine *pricing.Engine, phraser Phraser, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		nc:      nc,
		engine:  engine,
		phraser: phraser,
		logger:  logger.Named("dispatcher"),
	}
}

// Dispatch handles one interpretation
func (d *Dispatcher) Dispatch(it *common.Interpretation) (*common.OutboundMessage, error) {
	if it == nil {
		return nil, common.NewNegotiationError(common.ErrorCodeUnhandledInterpretation, "Interpretation is nil", "")
	}

	self := d.nc.Name()
	if it.Metadata.Speaker == self {
		d.recordOwn(it)
		return nil, nil
	}

	switch it.Metadata.Role {
	case common.RoleBuyer:
		return d.fromBuyer(it, self)
	case common.RoleSeller:
		// Other sellers' messages are not used yet
		d.logger.Debug("Ignoring message from another seller",
			zap.String("speaker", it.Metadata.Speaker),
			zap.String("type", string(it.Type)),
		)
		return nil, nil
	default:
		return nil, common.NewNegotiationError(common.ErrorCodeUnhandledInterpretation,
			"Unknown speaker role", string(it.Metadata.Role))
	}
}

// recordOwn tracks a message the agent itself sent, echoed back by the orchestrator
func (d *Dispatcher) recordOwn(it *common.Interpretation) {
	addressee := it.Metadata.Addressee
	unlock := d.nc.History.Lock(addressee)
	defer unlock()

	switch it.Type {
	case common.InterpretationAcceptOffer, common.InterpretationRejectOffer:
		d.nc.History.Clear(addressee)
	default:
		if !d.nc.History.Append(addressee, *it) {
			d.logger.Debug("No open thread for own message", zap.String("addressee", addressee))
		}
	}
}

func (d *Dispatcher) fromBuyer(it *common.Interpretation, self string) (*common.OutboundMessage, error) {
	addressedToMe := it.Metadata.Addressee == self

	switch it.Type {
	case common.InterpretationAcceptOffer:
		if !addressedToMe {
			return nil, nil
		}
		return d.buyerAccepted(it, self), nil

	case common.InterpretationRejectOffer:
		if !addressedToMe {
			return nil, nil
		}
		return d.buyerRejected(it, self), nil

	case common.InterpretationHaggle:
		if !addressedToMe {
			return nil, nil
		}
		return d.respondWithBid(it, self, d.engine.DecideOnHaggle)

	case common.InterpretationInformation:
		if !addressedToMe {
			return nil, nil
		}
		return d.reply(it, self, d.phraser.Canned(common.ReplyInformationAck), nil), nil

	case common.InterpretationNotUnderstood:
		d.logger.Debug("Message not understood; ignoring it", zap.String("speaker", it.Metadata.Speaker))
		return nil, nil

	case common.InterpretationBuyOffer, common.InterpretationBuyRequest:
		return d.respondWithBid(it, self, d.engine.DecideOnOffer)

	case common.InterpretationSellOffer:
		// A buyer does not make sell offers
		return nil, nil

	default:
		d.logger.Debug("Ignoring unknown interpretation type",
			zap.String("speaker", it.Metadata.Speaker),
			zap.String("type", string(it.Type)),
		)
		return nil, nil
	}
}

func (d *Dispatcher) buyerAccepted(it *common.Interpretation, self string) *common.OutboundMessage {
	buyer := it.Metadata.Speaker
	unlock := d.nc.History.Lock(buyer)
	defer unlock()

	offer, ok := d.nc.History.LastSellOffer(buyer, self)
	if !ok {
		d.logger.Info("Buyer accepted but no outstanding offer", zap.String("buyer", buyer))
		return d.reply(it, self, d.phraser.Canned(common.ReplyNoOutstandingOffer), nil)
	}
	d.nc.History.Clear(buyer)

	bid := &common.Bid{
		Type:     common.BidAccept,
		Quantity: common.CopyQuantity(offer.Quantity),
		Price:    offer.Price,
	}
	d.logger.Info("Buyer accepted my offer", zap.String("buyer", buyer))
	return d.reply(it, self, d.phraser.TranslateBid(bid, true), bid)
}

func (d *Dispatcher) buyerRejected(it *common.Interpretation, self string) *common.OutboundMessage {
	buyer := it.Metadata.Speaker
	unlock := d.nc.History.Lock(buyer)
	defer unlock()

	thread, open := d.nc.History.Thread(buyer)
	if !open || len(thread) == 0 {
		return d.reply(it, self, d.phraser.Canned(common.ReplyRejectNoThread), nil)
	}
	if _, ok := d.nc.History.LastSellOffer(buyer, self); !ok {
		return d.reply(it, self, d.phraser.Canned(common.ReplyRejectConfusion), nil)
	}
	d.nc.History.Clear(buyer)

	d.logger.Info("My offer was rejected", zap.String("buyer", buyer))
	return d.reply(it, self, d.phraser.Canned(common.ReplyRejectionRegret), nil)
}

type decideFunc func(*pricing.Request) (*common.Bid, error)

func (d *Dispatcher) respondWithBid(it *common.Interpretation, self string, decide decideFunc) (*common.OutboundMessage, error) {
	if !d.nc.Policy.MayRespond(it.Metadata.Role, it.Metadata.Addressee, self) {
		d.logger.Debug("Choosing not to respond",
			zap.String("speaker", it.Metadata.Speaker),
			zap.String("addressee", it.Metadata.Addressee),
			zap.String("type", string(it.Type)),
		)
		return nil, nil
	}

	buyer := it.Metadata.Speaker
	unlock := d.nc.History.Lock(buyer)
	defer unlock()

	d.nc.History.Record(buyer, *it)

	bid, err := decide(&pricing.Request{
		Offer:         it.Offer(),
		Utility:       d.nc.Session.Utility(),
		LastSellPrice: d.nc.History.LastSellOfferPrice(buyer, self),
		TimeRemaining: d.nc.Session.TimeRemaining(),
		RoundDuration: d.nc.Session.RoundDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("decide on %s from %s: %w", it.Type, buyer, err)
	}

	// A closed deal or a refusal ends the thread
	if bid.Type == common.BidAccept || bid.Type == common.BidReject {
		d.nc.History.Clear(buyer)
	}

	return d.reply(it, self, d.phraser.TranslateBid(bid, false), bid), nil
}

func (d *Dispatcher) reply(it *common.Interpretation, self, text string, bid *common.Bid) *common.OutboundMessage {
	return &common.OutboundMessage{
		Text:            text,
		Speaker:         self,
		Role:            common.RoleSeller,
		Addressee:       it.Metadata.Speaker,
		EnvironmentUUID: it.Metadata.EnvironmentUUID,
		TimeStamp:       d.nc.Now(),
		Bid:             bid,
	}
}
