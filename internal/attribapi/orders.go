package attribapi

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"admetrics/internal/model"
)

// FetchOrders returns the day's purchases. The endpoint serves a parquet
// file with item_price, discount_amount, tax, and fee columns.
func (c *Client) FetchOrders(ctx context.Context, date time.Time) ([]model.OrderRecord, error) {
	body, err := c.get(ctx, "orders", dateQuery(date))
	if err != nil {
		return nil, err
	}
	return decodeOrders(ctx, body)
}

func decodeOrders(ctx context.Context, data []byte) ([]model.OrderRecord, error) {
	rdr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("attribapi: opening orders parquet: %w", err)
	}
	defer func() { _ = rdr.Close() }()

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("attribapi: reading orders parquet: %w", err)
	}

	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("attribapi: decoding orders table: %w", err)
	}
	defer tbl.Release()

	columns := map[string][]float64{}
	for i := 0; i < int(tbl.NumCols()); i++ {
		name := tbl.Schema().Field(i).Name
		values, err := chunkedFloats(tbl.Column(i).Data())
		if err != nil {
			return nil, fmt.Errorf("attribapi: orders column %q: %w", name, err)
		}
		columns[name] = values
	}

	prices, ok := columns["item_price"]
	if !ok {
		return nil, fmt.Errorf("attribapi: orders parquet missing item_price column")
	}
	discounts := columns["discount_amount"]
	taxes := columns["tax"]
	fees := columns["fee"]
	if len(discounts) != len(prices) || len(taxes) != len(prices) || len(fees) != len(prices) {
		return nil, fmt.Errorf("attribapi: orders parquet columns have mismatched lengths")
	}

	orders := make([]model.OrderRecord, len(prices))
	for i := range prices {
		orders[i] = model.OrderRecord{
			ItemPrice:      prices[i],
			DiscountAmount: discounts[i],
			Tax:            taxes[i],
			Fee:            fees[i],
		}
	}
	return orders, nil
}

// chunkedFloats flattens a chunked numeric column into float64s.
func chunkedFloats(chunked *arrow.Chunked) ([]float64, error) {
	var out []float64
	for _, chunk := range chunked.Chunks() {
		switch col := chunk.(type) {
		case *array.Float64:
			for i := 0; i < col.Len(); i++ {
				out = append(out, col.Value(i))
			}
		case *array.Float32:
			for i := 0; i < col.Len(); i++ {
				out = append(out, float64(col.Value(i)))
			}
		case *array.Int64:
			for i := 0; i < col.Len(); i++ {
				out = append(out, float64(col.Value(i)))
			}
		case *array.Int32:
			for i := 0; i < col.Len(); i++ {
				out = append(out, float64(col.Value(i)))
			}
		default:
			return nil, fmt.Errorf("unsupported column type %s", chunk.DataType())
		}
	}
	return out, nil
}
