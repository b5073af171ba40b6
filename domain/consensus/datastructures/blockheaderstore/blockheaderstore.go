package blockheaderstore

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/ruleerrors"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/consensushashing"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/lrucache"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/serialization"
	"github.com/spreadcoin/spreadd/infrastructure/db/database"
)

var bucket = database.MakeBucket([]byte("block-headers"))
var countKey = database.MakeBucket(nil).Key([]byte("block-headers-count"))
var tipKey = database.MakeBucket(nil).Key([]byte("block-headers-tip"))

// blockHeaderStore represents a store of block headers
type blockHeaderStore struct {
	staging    map[externalapi.DomainHash]*externalapi.BlockHeader
	stagingTip *externalapi.DomainHash
	cache      *lrucache.LRUCache
	count      uint64
}

// New instantiates a new BlockHeaderStore
func New(dbContext model.DBReader, cacheSize int) (model.BlockHeaderStore, error) {
	blockHeaderStore := &blockHeaderStore{
		staging: make(map[externalapi.DomainHash]*externalapi.BlockHeader),
		cache:   lrucache.New(cacheSize),
	}

	err := blockHeaderStore.initializeCount(dbContext)
	if err != nil {
		return nil, err
	}

	return blockHeaderStore, nil
}

func (bhs *blockHeaderStore) initializeCount(dbContext model.DBReader) error {
	count := uint64(0)
	hasCountBytes, err := dbContext.Has(countKey)
	if err != nil {
		return err
	}
	if hasCountBytes {
		countBytes, err := dbContext.Get(countKey)
		if err != nil {
			return err
		}
		if len(countBytes) != 8 {
			return errors.Errorf("header count is %d bytes long instead of 8", len(countBytes))
		}
		count = binary.LittleEndian.Uint64(countBytes)
	}
	bhs.count = count
	return nil
}

// Stage stages the given block header and returns its hash. The highest
// staged header becomes the tip on Commit if it is higher than the
// current one.
func (bhs *blockHeaderStore) Stage(header *externalapi.BlockHeader) *externalapi.DomainHash {
	blockHash := consensushashing.HeaderHash(header)
	bhs.staging[*blockHash] = header.Clone()

	if bhs.stagingTip == nil || header.Height > bhs.staging[*bhs.stagingTip].Height {
		bhs.stagingTip = blockHash
	}
	return blockHash
}

func (bhs *blockHeaderStore) IsStaged() bool {
	return len(bhs.staging) != 0
}

func (bhs *blockHeaderStore) Discard() {
	bhs.staging = make(map[externalapi.DomainHash]*externalapi.BlockHeader)
	bhs.stagingTip = nil
}

func (bhs *blockHeaderStore) Commit(dbTx model.DBTransaction) error {
	newHeaders := uint64(0)
	for hash, header := range bhs.staging {
		hash := hash
		exists, err := dbTx.Has(bhs.hashAsKey(&hash))
		if err != nil {
			return err
		}
		if !exists {
			newHeaders++
		}

		headerBytes, err := bhs.serializeHeader(header)
		if err != nil {
			return err
		}
		err = dbTx.Put(bhs.hashAsKey(&hash), headerBytes)
		if err != nil {
			return err
		}
	}

	err := bhs.commitTip(dbTx)
	if err != nil {
		return err
	}

	countBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(countBytes, bhs.count+newHeaders)
	err = dbTx.Put(countKey, countBytes)
	if err != nil {
		return err
	}

	for hash, header := range bhs.staging {
		hash := hash
		bhs.cache.Add(&hash, header)
	}
	bhs.count += newHeaders
	bhs.Discard()
	return nil
}

func (bhs *blockHeaderStore) commitTip(dbTx model.DBTransaction) error {
	if bhs.stagingTip == nil {
		return nil
	}
	stagedTipHeader := bhs.staging[*bhs.stagingTip]

	currentTip, err := bhs.Tip(dbTx)
	if err != nil {
		return err
	}
	if currentTip != nil {
		currentTipHeader, err := bhs.BlockHeader(dbTx, currentTip)
		if err != nil {
			return err
		}
		if currentTipHeader.Height >= stagedTipHeader.Height {
			return nil
		}
	}

	log.Debugf("New tip %s at height %d", bhs.stagingTip, stagedTipHeader.Height)
	return dbTx.Put(tipKey, bhs.stagingTip.ByteSlice())
}

// BlockHeader gets the block header associated with the given blockHash
func (bhs *blockHeaderStore) BlockHeader(dbContext model.DBReader,
	blockHash *externalapi.DomainHash) (*externalapi.BlockHeader, error) {

	if header, ok := bhs.staging[*blockHash]; ok {
		return header.Clone(), nil
	}

	if header, ok := bhs.cache.Get(blockHash); ok {
		return header.Clone(), nil
	}

	headerBytes, err := dbContext.Get(bhs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	header, err := bhs.deserializeHeader(headerBytes)
	if serialization.IsMalformedError(err) {
		return nil, errors.Wrapf(err, "stored header %s is corrupt", blockHash)
	}
	if err != nil {
		return nil, err
	}
	bhs.cache.Add(blockHash, header)
	return header.Clone(), nil
}

// HasBlockHeader returns whether a block header with a given hash exists in the store.
func (bhs *blockHeaderStore) HasBlockHeader(dbContext model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := bhs.staging[*blockHash]; ok {
		return true, nil
	}

	if bhs.cache.Has(blockHash) {
		return true, nil
	}

	return dbContext.Has(bhs.hashAsKey(blockHash))
}

// Tip returns the hash of the highest committed header, or nil if no
// header was committed yet
func (bhs *blockHeaderStore) Tip(dbContext model.DBReader) (*externalapi.DomainHash, error) {
	tipBytes, err := dbContext.Get(tipKey)
	if database.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return externalapi.NewDomainHashFromByteSlice(tipBytes)
}

// ChainView returns tipHash as a HeaderNode linked to at most depth-1 of
// its ancestors. The view ends early at a header of height 0. A tip or
// ancestor that is not stored is reported as a missing parent.
func (bhs *blockHeaderStore) ChainView(dbContext model.DBReader, tipHash *externalapi.DomainHash,
	depth uint32) (*externalapi.HeaderNode, error) {

	if depth == 0 {
		return nil, errors.New("cannot build a chain view of depth 0")
	}

	headers := make([]*externalapi.BlockHeader, 0, depth)
	currentHash := tipHash
	for uint32(len(headers)) < depth {
		header, err := bhs.BlockHeader(dbContext, currentHash)
		if database.IsNotFoundError(err) {
			return nil, ruleerrors.NewErrMissingParent(currentHash)
		}
		if err != nil {
			return nil, err
		}
		headers = append(headers, header)
		if header.Height == 0 {
			break
		}
		currentHash = &header.PrevBlockHash
	}

	var node *externalapi.HeaderNode
	for i := len(headers) - 1; i >= 0; i-- {
		node = externalapi.NewHeaderNode(headers[i], node)
	}
	return node, nil
}

func (bhs *blockHeaderStore) Count() uint64 {
	return bhs.count
}

func (bhs *blockHeaderStore) hashAsKey(hash *externalapi.DomainHash) []byte {
	return bucket.Key(hash.ByteSlice())
}

func (bhs *blockHeaderStore) serializeHeader(header *externalapi.BlockHeader) ([]byte, error) {
	var buf bytes.Buffer
	err := serialization.SerializeHeader(&buf, header, chaincfg.ProtocolVersion)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (bhs *blockHeaderStore) deserializeHeader(headerBytes []byte) (*externalapi.BlockHeader, error) {
	return serialization.DeserializeHeader(bytes.NewReader(headerBytes), chaincfg.ProtocolVersion)
}
