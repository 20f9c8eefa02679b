package service

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ProjectsTask/EasySwapMarket/common/utils"
	"github.com/ProjectsTask/EasySwapMarket/market/book"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/event"
	"github.com/ProjectsTask/EasySwapMarket/market/settlement"
	"github.com/ProjectsTask/EasySwapMarket/types/v1"
)

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errs.ErrInvalidAddress.WithMessage("%q", s)
	}
	return common.HexToAddress(s), nil
}

func parseAddresses(in []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(in))
	for _, s := range in {
		a, err := parseAddress(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func parseTokenID(s string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() < 0 || id.BitLen() > 256 {
		return nil, errs.ErrInvalidTokenID.WithMessage("%q", s)
	}
	return id, nil
}

func parseTokenIDs(in []string) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(in))
	for _, s := range in {
		id, err := parseTokenID(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func parseEther(s string) (*big.Int, error) {
	wei, err := utils.EtherToWei(s)
	if err != nil {
		return nil, errs.ErrInvalidValueSent.WithMessage("%q", s)
	}
	return wei, nil
}

func seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}

func parseDesk(s string) (event.Desk, error) {
	d := event.Desk(s)
	if !d.Valid() {
		return "", errs.ErrInvalidDesk.WithMessage("%q", s)
	}
	return d, nil
}

func commitmentInfo(desk event.Desk, c *book.Commitment) types.CommitmentInfo {
	info := types.CommitmentInfo{
		ID:           c.ID,
		Desk:         string(desk),
		Maker:        c.Maker.Hex(),
		Collection:   c.Collection.Hex(),
		Price:        utils.WeiToEther(c.Price),
		PriceWithFee: utils.WeiToEther(c.PriceWithFee),
		CreatedAt:    c.CreatedAt.Unix(),
		ExpiresAt:    c.ExpiresAt.Unix(),
	}
	if c.TokenID != nil {
		info.TokenID = c.TokenID.String()
	}
	return info
}

func commitmentList(desk event.Desk, in []*book.Commitment) *types.CommitmentListResp {
	resp := &types.CommitmentListResp{Result: make([]types.CommitmentInfo, 0, len(in))}
	for _, c := range in {
		resp.Result = append(resp.Result, commitmentInfo(desk, c))
	}
	resp.Count = len(resp.Result)
	return resp
}

func settlementInfo(b *settlement.Breakdown) *types.SettlementInfo {
	if b == nil {
		return nil
	}
	info := &types.SettlementInfo{
		NetPrice:         utils.WeiToEther(b.NetPrice),
		Gross:            utils.WeiToEther(b.Gross),
		MakerFeePercent:  uint64(b.MakerFeePercent),
		MakerFee:         utils.WeiToEther(b.MakerFee),
		TakerFee:         utils.WeiToEther(b.TakerFee),
		RoyaltyRecipient: b.RoyaltyRecipient.Hex(),
		RoyaltyPercent:   uint64(b.RoyaltyPercent),
		Royalty:          utils.WeiToEther(b.Royalty),
		SellerProceeds:   utils.WeiToEther(b.SellerProceeds),
		FeeSink:          utils.WeiToEther(b.FeeSink),
		Dividend:         utils.WeiToEther(b.Dividend),
		InitialSale:      b.InitialSale,
		SellerWaived:     b.SellerWaived,
		BuyerWaived:      b.BuyerWaived,
	}
	for _, p := range b.Deferred {
		info.Deferred = append(info.Deferred, types.PaymentInfo{To: p.To.Hex(), Amount: utils.WeiToEther(p.Amount)})
	}
	return info
}
