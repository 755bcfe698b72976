package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", formatThousands(0))
	assert.Equal(t, "999", formatThousands(999))
	assert.Equal(t, "25.000", formatThousands(25000))
	assert.Equal(t, "1.000.000", formatThousands(1000000))
	assert.Equal(t, "-1.500", formatThousands(-1500))
}

func TestGenerateMovementVoucher_Salida(t *testing.T) {
	svc := int64(3)
	code := "JER-5"
	m := &entity.Movement{
		ID:                     17,
		Type:                   entity.MovementTypeExit,
		DocumentNumber:         "SAL-2025-00017",
		CreatedAt:              time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		ActorID:                1,
		ActorUsername:          "bodega",
		DestinationServiceID:   &svc,
		DestinationServiceName: "Urgencias",
		Lines: []entity.MovementLine{
			{BatchID: 1, Quantity: 5, ItemID: 42, ItemName: "Jeringa 5ml", ItemCode: &code, LotNumber: "L1"},
			{BatchID: 2, Quantity: 1200, ItemID: 43, ItemName: "Gasa", LotNumber: "G7"},
		},
	}

	out, err := NewMovementVoucherGenerator("GestInvLab").GenerateMovementVoucher(m)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateMovementVoucher_Nil(t *testing.T) {
	_, err := NewMovementVoucherGenerator("GestInvLab").GenerateMovementVoucher(nil)
	assert.Error(t, err)
}
