package serviceclass

import (
	"context"
	"os"
	"path/filepath"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// SensorDownload wraps the sensor_download collection.
type SensorDownload struct {
	*ServiceClass
}

// NewSensorDownload creates a sensor download class.
func NewSensorDownload(opts Options) *SensorDownload {
	d := &SensorDownload{ServiceClass: New("sensor_download", opts)}
	d.Register("DownloadSensorInstallerById", d.download, "download_sensor_installer")
	d.Alias("get_combined_sensor_installers_by_query", "GetCombinedSensorInstallersByQuery")
	d.Alias("get_sensor_installer_entities", "GetSensorInstallersEntities")
	d.Alias("get_sensor_installers_ccid", "GetSensorInstallersCCIDByQuery")
	d.Alias("get_sensor_installers_by_query", "GetSensorInstallersByQuery")
	return d
}

// GetCombinedSensorInstallersByQuery returns installer details matching q.
func (d *SensorDownload) GetCombinedSensorInstallersByQuery(ctx context.Context, q Query) *domain.Response {
	return d.Invoke(ctx, "GetCombinedSensorInstallersByQuery", q.Options())
}

// GetSensorInstallersEntities returns installer metadata by SHA256.
func (d *SensorDownload) GetSensorInstallersEntities(ctx context.Context, ids ...string) *domain.Response {
	return d.Invoke(ctx, "GetSensorInstallersEntities", domain.CommandOptions{Keywords: map[string]any{"ids": ids}})
}

// GetSensorInstallersCCID returns the customer id with checksum.
func (d *SensorDownload) GetSensorInstallersCCID(ctx context.Context) *domain.Response {
	return d.Invoke(ctx, "GetSensorInstallersCCIDByQuery", domain.CommandOptions{})
}

// DownloadSensorInstaller fetches the installer with the given SHA256.
// When dir and fileName are both set the payload is written to
// dir/fileName, creating dir if needed, and a success message is returned
// instead of the bytes.
func (d *SensorDownload) DownloadSensorInstaller(ctx context.Context, id, dir, fileName string) *domain.Response {
	return d.download(ctx, domain.CommandOptions{
		Keywords: map[string]any{"id": id, "download_path": dir, "file_name": fileName},
	})
}

func (d *SensorDownload) download(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	dirValue, _ := keyword(opts, "download_path")
	nameValue, _ := keyword(opts, "file_name")
	dir, _ := dirValue.(string)
	name, _ := nameValue.(string)

	resp := d.Call(ctx, "DownloadSensorInstallerById", RequestFromOptions(opts))
	if dir == "" || name == "" || !resp.IsBinary() {
		return resp
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.ErrorResponse(domain.NewError(domain.KindTransport, "create download directory: %v", err))
	}
	target := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(target, resp.Raw, 0o644); err != nil {
		return domain.ErrorResponse(domain.NewError(domain.KindTransport, "write installer: %v", err))
	}
	logger.Info("Sensor installer saved to %s (%d bytes)", target, len(resp.Raw))
	return okResponse("Download successful")
}

func okResponse(message string) *domain.Response {
	return domain.NewResponse(domain.Result{
		StatusCode: 200,
		Headers:    map[string]string{},
		Body:       map[string]any{"message": message, "resources": []any{}},
	})
}
