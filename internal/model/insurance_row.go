package model

// InsuranceRow is one raw record from the source file: the seven well-known
// columns of the flat insurance dataset. Every field is nullable at this
// layer; validation happens in the fact builder, never in the reader.
type InsuranceRow struct {
	Age      *int64   `parquet:"age,optional"`
	Sex      *string  `parquet:"sex,optional"`
	BMI      *float64 `parquet:"bmi,optional"`
	Children *int64   `parquet:"children,optional"`
	Smoker   *string  `parquet:"smoker,optional"`
	Region   *string  `parquet:"region,optional"`
	Charges  *float64 `parquet:"charges,optional"`
}

// Columns lists the source column names in canonical order.
func Columns() []string {
	return []string{"age", "sex", "bmi", "children", "smoker", "region", "charges"}
}
