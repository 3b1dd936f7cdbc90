package scanner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"trustcheck/internal/errs"
	"trustcheck/internal/logger"
	"trustcheck/internal/scanner/tools"
	"trustcheck/pkg/models"
)

// DNSSECInspector reports which DNSSEC material a zone advertises.
type DNSSECInspector struct {
	querier    *tools.DNSQuerier
	loadSystem tools.SystemConfigLoader
}

func NewDNSSECInspector(timeout time.Duration) *DNSSECInspector {
	return &DNSSECInspector{
		querier:    tools.NewDNSQuerier(timeout),
		loadSystem: tools.LoadResolvConf,
	}
}

// Inspect queries DNSKEY, DS and the signatures over SOA. A failed lookup
// leaves its collection empty; only bad input and cancellation are errors.
func (d *DNSSECInspector) Inspect(ctx context.Context, domain, nameserver string) (*models.DnssecResult, error) {
	domain, err := tools.RequireDomain(domain)
	if err != nil {
		return nil, err
	}

	selection, err := tools.SelectResolver(nameserver, d.loadSystem)
	if err != nil {
		return nil, err
	}

	log := logger.GetFromContext(ctx, logger.Get()).With(
		slog.String("domain", domain),
		slog.String("nameserver", selection.Reported))
	log.Debug("starting dnssec inspection")

	result := &models.DnssecResult{
		Domain:        domain,
		DNSKEYRecords: []models.DnskeyRecord{},
		DSRecords:     []models.DsRecord{},
		RRSIGRecords:  []models.RrsigRecord{},
		Nameserver:    selection.Reported,
	}

	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		keys, err := d.querier.LookupDNSKEY(ctx, selection.Servers, domain)
		if err != nil {
			log.Debug("DNSKEY lookup returned nothing", slog.String("error", err.Error()))
			return
		}
		for _, key := range keys {
			record, err := tools.ConvertDNSKEY(key)
			if err != nil {
				log.Warn("skipping malformed DNSKEY record", slog.String("error", err.Error()))
				continue
			}
			result.DNSKEYRecords = append(result.DNSKEYRecords, record)
		}
	}()

	go func() {
		defer wg.Done()
		records, err := d.querier.LookupDS(ctx, selection.Servers, domain)
		if err != nil {
			log.Debug("DS lookup returned nothing", slog.String("error", err.Error()))
			return
		}
		for _, ds := range records {
			record, err := tools.ConvertDS(ds)
			if err != nil {
				log.Warn("skipping malformed DS record", slog.String("error", err.Error()))
				continue
			}
			result.DSRecords = append(result.DSRecords, record)
		}
	}()

	go func() {
		defer wg.Done()
		sigs, err := d.querier.LookupSOASignatures(ctx, selection.Servers, domain)
		if err != nil {
			log.Debug("SOA signature lookup returned nothing", slog.String("error", err.Error()))
			return
		}
		for _, sig := range sigs {
			record, err := tools.ConvertRRSIG(sig)
			if err != nil {
				log.Warn("skipping malformed RRSIG record", slog.String("error", err.Error()))
				continue
			}
			result.RRSIGRecords = append(result.RRSIGRecords, record)
		}
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errs.Network("dnssec inspection interrupted", err)
	}

	hasDNSKEY := len(result.DNSKEYRecords) > 0
	hasDS := len(result.DSRecords) > 0
	result.DNSSECEnabled = hasDNSKEY || hasDS || len(result.RRSIGRecords) > 0
	result.ValidationStatus = models.DeriveValidationStatus(result.DNSSECEnabled, hasDNSKEY, hasDS)
	result.ResponseTimeMs = uint64(time.Since(start).Milliseconds())

	log.Debug("dnssec inspection completed",
		slog.Bool("enabled", result.DNSSECEnabled),
		slog.String("status", string(result.ValidationStatus)),
		slog.Uint64("response_time_ms", result.ResponseTimeMs))

	return result, nil
}
