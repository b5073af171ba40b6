package model

import (
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// BlockTemplateBuilder builds block templates for miners to consume
type BlockTemplateBuilder interface {
	GetBlockTemplate(parent *externalapi.HeaderNode, transactions []*externalapi.DomainTransaction,
		timestamp int64) (*externalapi.DomainBlock, error)
}
