package logger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "saletype/internal/core/context"
)

func TestFromContext_EnrichesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	ctx := WithLogger(context.Background(), l)
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "u-1", CompanyID: "c-1"})

	Info(ctx, "quotation sent", "order_id", "o-1")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "quotation sent", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "u-1", fields["user_id"])
	assert.Equal(t, "c-1", fields["company_id"])
	assert.Equal(t, "o-1", fields["order_id"])
}

func TestWithComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewFromZap(zap.New(core)).WithComponent("mail")

	l.Infow("delivered")
	l.Debugw("filtered out")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "mail", logs.All()[0].ContextMap()["component"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestFromContext_DefaultSaleType(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), NewFromZap(zap.New(core)))

	st := uuid.New()
	Info(appctx.WithDefaultSaleType(ctx, st), "type assigned")
	Info(ctx, "no default")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, st.String(), logs.All()[0].ContextMap()["default_sale_type_id"])
	assert.NotContains(t, logs.All()[1].ContextMap(), "default_sale_type_id")
}
