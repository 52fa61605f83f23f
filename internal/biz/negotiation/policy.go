package negotiation

import "negotiation_seller_agent/internal/biz/common"

// ResponsePolicy decides whether the agent may answer an offer, request or
// haggle. A polite agent only answers buyers who address it or nobody in
// particular; an impolite one answers everything.
type ResponsePolicy struct {
	Polite bool
}

// MayRespond applies the policy to one message
func (p ResponsePolicy) MayRespond(speakerRole common.Role, addressee, agentName string) bool {
	if !p.Polite {
		return true
	}
	return speakerRole == common.RoleBuyer && (addressee == agentName || addressee == "")
}
