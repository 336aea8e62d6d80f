// Package sales contiene el motor de ventas: valida la solicitud contra el inventario
// vivo, descuenta existencias y registra la venta en el libro (incluidas las rechazadas).
package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/farmacia-api/internal/application/audit"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/clock"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	audit    audit.Recorder
	clock    clock.Clock
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	recorder audit.Recorder,
	clk clock.Clock,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		audit:    recorder,
		clock:    clk,
		log:      log.Component("sales"),
	}
}

// CreateSale procesa una solicitud de venta. Dentro de una transacción bloquea la fila
// del medicamento (SELECT FOR UPDATE), evalúa vencimiento y luego existencias, y solo
// en una venta válida descuenta el stock. Siempre se registra exactamente una venta.
//
// Las ventas rechazadas no son errores: se devuelven con su estado.
// Devuelve domain.ErrNotFound si no hay un medicamento activo con ese id.
func (uc *UseCase) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleDTO, error) {
	if !req.Validate() {
		return nil, fmt.Errorf("%w: medicine_id es obligatorio y quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}

	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(medicineRepo repository.MedicineRepository, saleRepo repository.SaleRepository) error {
		med, err := medicineRepo.GetActiveByIDForUpdate(ctx, req.MedicineID)
		if err != nil {
			return fmt.Errorf("sales: obtener medicamento: %w", err)
		}
		if med == nil {
			return fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, req.MedicineID)
		}

		now := uc.clock.Now()
		status := entity.EvaluateSale(med, req.Quantity, now)
		if status == entity.SaleStatusValid {
			med.Quantity -= req.Quantity
			if err := medicineRepo.UpdateQuantity(ctx, med.ID, med.Quantity); err != nil {
				return fmt.Errorf("sales: descontar stock: %w", err)
			}
		}

		sale = entity.NewSale(uuid.New().String(), med, req.Quantity, status, now)
		if err := saleRepo.Create(ctx, sale); err != nil {
			return fmt.Errorf("sales: registrar venta: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recordSale(ctx, sale)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("medicine_id", sale.MedicineID).
		Int("quantity", sale.QuantitySold).
		Str("status", string(sale.Status)).
		Msg("venta registrada")
	return ToSaleDTO(sale), nil
}

// recordSale se llama después del commit; un fallo de auditoría no afecta la venta.
func (uc *UseCase) recordSale(ctx context.Context, sale *entity.Sale) {
	med := sale.Medicine
	var action, msg string
	switch sale.Status {
	case entity.SaleStatusRejectedExpired:
		action = audit.ActionSaleRejected
		msg = fmt.Sprintf("Venta rechazada por vencimiento: %s (lote %s) cantidad %d", med.Name, med.BatchNumber, sale.QuantitySold)
	case entity.SaleStatusRejectedOutOfStock:
		action = audit.ActionSaleRejected
		msg = fmt.Sprintf("Venta rechazada por falta de stock: %s (lote %s) cantidad %d", med.Name, med.BatchNumber, sale.QuantitySold)
	default:
		action = audit.ActionSale
		msg = fmt.Sprintf("Venta de %s (lote %s) cantidad %d, quedan %d", med.Name, med.BatchNumber, sale.QuantitySold, med.Quantity)
	}
	uc.audit.Record(ctx, action, audit.EntitySale, sale.ID, msg)
}

// ListByStatus lista las ventas con el estado dado, más recientes primero.
func (uc *UseCase) ListByStatus(ctx context.Context, status string, page dto.PageRequest) ([]dto.SaleDTO, error) {
	st := entity.SaleStatus(status)
	if !st.Valid() {
		return nil, fmt.Errorf("%w: estado de venta desconocido %q", domain.ErrInvalidArgument, status)
	}
	page.DefaultPage()
	list, err := uc.saleRepo.ListByStatus(ctx, st, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("sales: listar por estado: %w", err)
	}
	out := make([]dto.SaleDTO, 0, len(list))
	for _, s := range list {
		out = append(out, *ToSaleDTO(s))
	}
	return out, nil
}

// ToSaleDTO convierte la entidad a su representación de respuesta.
func ToSaleDTO(s *entity.Sale) *dto.SaleDTO {
	out := &dto.SaleDTO{
		ID:           s.ID,
		MedicineID:   s.MedicineID,
		QuantitySold: s.QuantitySold,
		UnitPrice:    s.UnitPrice,
		TotalPrice:   s.TotalPrice,
		Status:       string(s.Status),
		SaleDate:     s.SaleDate,
	}
	if s.Medicine != nil {
		out.MedicineName = s.Medicine.Name
		out.BatchNumber = s.Medicine.BatchNumber
	}
	return out
}
