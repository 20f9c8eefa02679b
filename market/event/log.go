package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapMarket/logger/xzap"
)

// LogSink 把事件写入日志
type LogSink struct{}

func (LogSink) Publish(ctx context.Context, events []Event) error {
	for _, e := range events {
		fields := []zap.Field{
			zap.Uint64("seq", e.Seq),
			zap.String("type", string(e.Type)),
			zap.String("desk", string(e.Desk)),
			zap.String("id", e.ID),
			zap.String("collection", e.Collection.Hex()),
			zap.String("maker", e.Maker.Hex()),
			zap.String("counterparty", e.Counterparty.Hex()),
		}
		if e.TokenID != nil {
			fields = append(fields, zap.String("token_id", e.TokenID.String()))
		}
		if e.Price != nil {
			fields = append(fields, zap.String("price", e.Price.String()))
		}
		if e.ExpiresAt != nil {
			fields = append(fields, zap.Time("expires_at", *e.ExpiresAt))
		}
		if s := e.Settlement; s != nil {
			fields = append(fields,
				zap.String("seller_proceeds", s.SellerProceeds.String()),
				zap.String("royalty", s.Royalty.String()),
				zap.String("fee_sink", s.FeeSink.String()),
				zap.String("dividend", s.Dividend.String()),
			)
		}
		xzap.WithContext(ctx).Info("market event", fields...)
	}
	return nil
}
