package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsClient wraps CloudWatch PutMetricData for a fixed namespace.
type MetricsClient struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewMetricsClient returns a MetricsClient. An empty namespace defaults to "Bakery".
func NewMetricsClient(client CloudWatchAPI, namespace string) *MetricsClient {
	if namespace == "" {
		namespace = "Bakery"
	}
	return &MetricsClient{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Datum is one metric data point.
type Datum struct {
	Name       string
	Value      float64
	Unit       types.StandardUnit
	Dimensions map[string]string
}

// PutMetric sends a single metric data point.
func (m *MetricsClient) PutMetric(ctx context.Context, metricName string, value float64, unit types.StandardUnit, dimensions map[string]string) error {
	return m.PutMetrics(ctx, Datum{Name: metricName, Value: value, Unit: unit, Dimensions: dimensions})
}

// PutMetrics sends all data points in one PutMetricData call, so they are recorded together or not at all.
func (m *MetricsClient) PutMetrics(ctx context.Context, data ...Datum) error {
	now := m.nowFunc()
	metricData := make([]types.MetricDatum, 0, len(data))
	names := make([]string, 0, len(data))
	for _, d := range data {
		dims := make([]types.Dimension, 0, len(d.Dimensions))
		for k, v := range d.Dimensions {
			dims = append(dims, types.Dimension{
				Name:  sdkaws.String(k),
				Value: sdkaws.String(v),
			})
		}
		metricData = append(metricData, types.MetricDatum{
			MetricName: sdkaws.String(d.Name),
			Value:      sdkaws.Float64(d.Value),
			Unit:       d.Unit,
			Timestamp:  sdkaws.Time(now),
			Dimensions: dims,
		})
		names = append(names, d.Name)
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(m.namespace),
		MetricData: metricData,
	})
	if err != nil {
		return fmt.Errorf("put metrics %s: %w", strings.Join(names, ","), err)
	}
	return nil
}

// IncrementCounter sends a count metric with value 1.
func (m *MetricsClient) IncrementCounter(ctx context.Context, metricName string, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions)
}
