package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Kind é o tipo lógico de uma coluna normalizada.
type Kind int

const (
	KindString Kind = iota
	KindInt64
	KindFloat64
	KindBool
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp[ms]"
	default:
		return "string"
	}
}

// Campos com tratamento fixo no CUR 2.0.
var (
	TimeFields = []string{
		"line_item_usage_start_date",
		"line_item_usage_end_date",
		"bill_billing_period_start_date",
		"bill_billing_period_end_date",
	}

	StringFields = []string{
		"line_item_usage_account_id",
		"bill_payer_account_id",
		"line_item_resource_id",
		"product_region",
		"line_item_operation",
		"line_item_line_item_type",
		"product_product_family",
		"line_item_usage_type",
		"pricing_term",
		"product_from_account_id",
		"product_to_account_id",
		"pricing_plan_arn",
		"resource_id",
		"bill_invoice_id",
	}

	MapFields = []string{
		"cost_category",
		"discount",
		"product",
		"resource_tags",
	}
)

// FieldRole determina a regra de normalização aplicada a uma coluna.
type FieldRole int

const (
	RoleInferred FieldRole = iota
	RoleTime
	RoleString
	RoleMap
)

var roles = func() map[string]FieldRole {
	m := make(map[string]FieldRole, len(TimeFields)+len(StringFields)+len(MapFields))
	for _, f := range TimeFields {
		m[f] = RoleTime
	}
	for _, f := range StringFields {
		m[f] = RoleString
	}
	for _, f := range MapFields {
		m[f] = RoleMap
	}
	return m
}()

// RoleOf devolve o papel de um campo pelo nome.
func RoleOf(name string) FieldRole {
	return roles[name]
}

var timestampMs = &arrow.TimestampType{Unit: arrow.Millisecond}

// arrowType traduz o Kind de uma coluna para o tipo Arrow explícito.
func arrowType(k Kind) arrow.DataType {
	switch k {
	case KindInt64:
		return arrow.PrimitiveTypes.Int64
	case KindFloat64:
		return arrow.PrimitiveTypes.Float64
	case KindBool:
		return arrow.FixedWidthTypes.Boolean
	case KindTimestamp:
		return timestampMs
	default:
		return arrow.BinaryTypes.String
	}
}

// BuildSchema monta o schema Arrow a partir das colunas normalizadas.
func BuildSchema(cols []*NormalizedColumn) *arrow.Schema {
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Kind), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}
