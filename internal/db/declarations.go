package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/declarium/customs-declaration-service/internal/models"
)

// declColumns is the column list shared by the declaration queries, in
// scan order.
const declColumns = `
	id, regime, decl_type, procedure_code,
	exporter_name, exporter_address, exporter_country, exporter_tin,
	consignee_name, consignee_address, consignee_country, consignee_tin,
	fin_responsible_name, fin_responsible_address, fin_responsible_tin,
	declarant_name, declarant_address, declarant_tin,
	departure_country, destination_country, trading_country,
	contract_number, contract_date, currency_code, incoterms_code,
	exchange_rate, total_invoice_amount, total_customs_value,
	transport_type, transport_number, border_transport,
	total_packages, total_duty, total_vat, total_fee,
	documents_note, created_at, updated_at`

// SaveDeclaration inserts a declaration header together with its line
// items in one transaction. The caller passes fully normalized data; no
// normalization happens here.
func SaveDeclaration(ctx context.Context, brokerAlias string, d *models.Declaration) error {
	schema := GetSchemaForBroker(brokerAlias)

	tx, err := Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.declarations (
			id, regime, decl_type, procedure_code,
			exporter_name, exporter_address, exporter_country, exporter_tin,
			consignee_name, consignee_address, consignee_country, consignee_tin,
			fin_responsible_name, fin_responsible_address, fin_responsible_tin,
			declarant_name, declarant_address, declarant_tin,
			departure_country, destination_country, trading_country,
			contract_number, contract_date, currency_code, incoterms_code,
			exchange_rate, total_invoice_amount, total_customs_value,
			transport_type, transport_number, border_transport,
			total_packages, total_duty, total_vat, total_fee,
			documents_note
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31, $32, $33, $34, $35, $36
		)
		RETURNING created_at
	`, schema)

	err = tx.QueryRow(ctx, query,
		d.ID, string(d.Regime), string(d.Type), d.ProcedureCode,
		d.ExporterName, d.ExporterAddress, d.ExporterCountry, d.ExporterTIN,
		d.ConsigneeName, d.ConsigneeAddress, d.ConsigneeCountry, d.ConsigneeTIN,
		d.FinResponsibleName, d.FinResponsibleAddress, d.FinResponsibleTIN,
		d.DeclarantName, d.DeclarantAddress, d.DeclarantTIN,
		d.DepartureCountry, d.DestinationCountry, d.TradingCountry,
		d.ContractNumber, d.ContractDate, d.CurrencyCode, d.IncotermsCode,
		toFloat(d.ExchangeRate), toFloat(d.TotalInvoiceAmount), toFloat(d.TotalCustomsValue),
		d.TransportType, d.TransportNumber, d.BorderTransport,
		d.TotalPackages, toFloat(d.TotalDuty), toFloat(d.TotalVAT), toFloat(d.TotalFee),
		d.DocumentsNote,
	).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert declaration: %w", err)
	}

	if err := insertItems(ctx, tx, schema, d); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReplaceItems rewrites a declaration's line items to match the in-memory
// list.
func ReplaceItems(ctx context.Context, brokerAlias string, d *models.Declaration) error {
	schema := GetSchemaForBroker(brokerAlias)

	tx, err := Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s.declaration_items WHERE declaration_id = $1", schema), d.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	if err := insertItems(ctx, tx, schema, d); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, schema string, d *models.Declaration) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.declaration_items (
			id, declaration_id, item_number, description, hs_code,
			origin_country, procedure_code, vin, package_count, package_type,
			gross_weight, net_weight, item_price, customs_value,
			statistical_value, preference_code,
			duty_rate, duty_amount, vat_rate, vat_amount,
			fee_rate, fee_amount, total_payment
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23
		)
	`, schema)

	for i := range d.Items {
		it := &d.Items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if _, err := tx.Exec(ctx, query,
			it.ID, d.ID, it.ItemNumber, it.Description, it.HSCode,
			it.OriginCountry, it.ProcedureCode, it.VIN, it.PackageCount, it.PackageType,
			toFloat(it.GrossWeight), toFloat(it.NetWeight), toFloat(it.ItemPrice), toFloat(it.CustomsValue),
			toFloat(it.StatisticalValue), it.PreferenceCode,
			it.DutyRate, toFloat(it.DutyAmount), it.VATRate, toFloat(it.VATAmount),
			it.FeeRate, toFloat(it.FeeAmount), toFloat(it.TotalPayment),
		); err != nil {
			return fmt.Errorf("failed to insert item %d: %w", it.ItemNumber, err)
		}
	}
	return nil
}

// GetDeclarations returns the newest declarations for a brokerage, headers
// only.
func GetDeclarations(ctx context.Context, brokerAlias string, limit int) ([]models.Declaration, error) {
	schema := GetSchemaForBroker(brokerAlias)

	query := fmt.Sprintf(`
		SELECT %s FROM %s.declarations
		ORDER BY created_at DESC
		LIMIT $1
	`, declColumns, schema)

	rows, err := Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decls []models.Declaration
	for rows.Next() {
		d, err := scanDeclaration(rows)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, rows.Err()
}

// GetDeclarationByID retrieves one declaration together with its ordered
// line items.
func GetDeclarationByID(ctx context.Context, brokerAlias, id string) (*models.Declaration, error) {
	schema := GetSchemaForBroker(brokerAlias)

	query := fmt.Sprintf("SELECT %s FROM %s.declarations WHERE id = $1", declColumns, schema)
	row := Pool.QueryRow(ctx, query, id)
	d, err := scanDeclaration(row)
	if err != nil {
		return nil, err
	}

	itemsQuery := fmt.Sprintf(`
		SELECT id, item_number, description, hs_code, origin_country,
		       procedure_code, COALESCE(vin, ''), package_count, COALESCE(package_type, ''),
		       gross_weight, net_weight, item_price, customs_value,
		       statistical_value, COALESCE(preference_code, ''),
		       duty_rate, duty_amount, vat_rate, vat_amount,
		       fee_rate, fee_amount, total_payment
		FROM %s.declaration_items
		WHERE declaration_id = $1
		ORDER BY item_number
	`, schema)

	rows, err := Pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it models.LineItem
		var gross, net, price, customs, stat, duty, vat, fee, total float64
		err := rows.Scan(
			&it.ID, &it.ItemNumber, &it.Description, &it.HSCode, &it.OriginCountry,
			&it.ProcedureCode, &it.VIN, &it.PackageCount, &it.PackageType,
			&gross, &net, &price, &customs, &stat, &it.PreferenceCode,
			&it.DutyRate, &duty, &it.VATRate, &vat,
			&it.FeeRate, &fee, &total,
		)
		if err != nil {
			return nil, err
		}
		it.GrossWeight = decimal.NewFromFloat(gross)
		it.NetWeight = decimal.NewFromFloat(net)
		it.ItemPrice = decimal.NewFromFloat(price)
		it.CustomsValue = decimal.NewFromFloat(customs)
		it.StatisticalValue = decimal.NewFromFloat(stat)
		it.DutyAmount = decimal.NewFromFloat(duty)
		it.VATAmount = decimal.NewFromFloat(vat)
		it.FeeAmount = decimal.NewFromFloat(fee)
		it.TotalPayment = decimal.NewFromFloat(total)
		d.Items = append(d.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDeclaration updates whitelisted header fields. Aggregate money
// columns are engine-owned and go through SaveDeclaration/ReplaceItems,
// never through this path.
func UpdateDeclaration(ctx context.Context, brokerAlias, id string, updates map[string]interface{}) error {
	schema := GetSchemaForBroker(brokerAlias)

	sets := ""
	args := []interface{}{}
	i := 1
	for key, value := range updates {
		if sets != "" {
			sets += ", "
		}
		sets += fmt.Sprintf("%s = $%d", key, i)
		args = append(args, value)
		i++
	}
	sets += fmt.Sprintf(", updated_at = $%d", i)
	args = append(args, time.Now())
	i++
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s.declarations SET %s WHERE id = $%d", schema, sets, i)
	_, err := Pool.Exec(ctx, query, args...)
	return err
}

// UpdateEngineFields persists the engine-owned header fields after a
// recomputation: regime stamping and the aggregate totals.
func UpdateEngineFields(ctx context.Context, brokerAlias string, d *models.Declaration) error {
	schema := GetSchemaForBroker(brokerAlias)
	query := fmt.Sprintf(`
		UPDATE %s.declarations SET
			regime = $1, decl_type = $2, procedure_code = $3,
			exchange_rate = $4, total_invoice_amount = $5, total_customs_value = $6,
			total_packages = $7, total_duty = $8, total_vat = $9, total_fee = $10,
			updated_at = $11
		WHERE id = $12
	`, schema)
	_, err := Pool.Exec(ctx, query,
		string(d.Regime), string(d.Type), d.ProcedureCode,
		toFloat(d.ExchangeRate), toFloat(d.TotalInvoiceAmount), toFloat(d.TotalCustomsValue),
		d.TotalPackages, toFloat(d.TotalDuty), toFloat(d.TotalVAT), toFloat(d.TotalFee),
		time.Now(), d.ID,
	)
	return err
}

// DeleteDeclaration removes a declaration and its items.
func DeleteDeclaration(ctx context.Context, brokerAlias, id string) error {
	schema := GetSchemaForBroker(brokerAlias)
	if _, err := Pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s.declaration_items WHERE declaration_id = $1", schema), id); err != nil {
		return err
	}
	_, err := Pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s.declarations WHERE id = $1", schema), id)
	return err
}

// scanner covers pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDeclaration(row scanner) (models.Declaration, error) {
	var d models.Declaration
	var regime, declType string
	var rate, invoice, customs, duty, vat, fee float64
	err := row.Scan(
		&d.ID, &regime, &declType, &d.ProcedureCode,
		&d.ExporterName, &d.ExporterAddress, &d.ExporterCountry, &d.ExporterTIN,
		&d.ConsigneeName, &d.ConsigneeAddress, &d.ConsigneeCountry, &d.ConsigneeTIN,
		&d.FinResponsibleName, &d.FinResponsibleAddress, &d.FinResponsibleTIN,
		&d.DeclarantName, &d.DeclarantAddress, &d.DeclarantTIN,
		&d.DepartureCountry, &d.DestinationCountry, &d.TradingCountry,
		&d.ContractNumber, &d.ContractDate, &d.CurrencyCode, &d.IncotermsCode,
		&rate, &invoice, &customs,
		&d.TransportType, &d.TransportNumber, &d.BorderTransport,
		&d.TotalPackages, &duty, &vat, &fee,
		&d.DocumentsNote, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return d, err
	}
	d.Regime = models.Regime(regime)
	d.Type = models.DeclarationType(declType)
	d.ExchangeRate = decimal.NewFromFloat(rate)
	d.TotalInvoiceAmount = decimal.NewFromFloat(invoice)
	d.TotalCustomsValue = decimal.NewFromFloat(customs)
	d.TotalDuty = decimal.NewFromFloat(duty)
	d.TotalVAT = decimal.NewFromFloat(vat)
	d.TotalFee = decimal.NewFromFloat(fee)
	return d, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
