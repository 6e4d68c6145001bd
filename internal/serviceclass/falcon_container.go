package serviceclass

import (
	"context"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// FalconContainer wraps the falcon_container collection. The image
// assessment operations are sent to the container upload host paired
// with the caller's region.
type FalconContainer struct {
	*ServiceClass
}

// NewFalconContainer creates a container class.
func NewFalconContainer(opts Options) *FalconContainer {
	c := &FalconContainer{ServiceClass: New("falcon_container", opts)}
	c.Register("ReadImageVulnerabilities", c.readImageVulnerabilities, "read_image_vulnerabilities")
	c.Register(domain.OpDeleteImageDetails, c.deleteImageDetails, "delete_image_details")
	c.Alias("get_credentials", "GetCredentials")
	c.Alias("get_assessment", domain.OpGetImageAssessmentReport)
	c.Alias("image_matches_policy", domain.OpImageMatchesPolicy)
	c.Alias("download_export_file", "DownloadExportFile")
	c.Alias("read_export_jobs", "ReadExportJobs")
	c.Alias("launch_export_job", "LaunchExportJob")
	c.Alias("query_export_jobs", "QueryExportJobs")
	c.Alias("read_registry_entities", "ReadRegistryEntities")
	c.Alias("read_registry_entities_by_uuid", "ReadRegistryEntitiesByUUID")
	c.Alias("create_registry_entities", "CreateRegistryEntities")
	c.Alias("update_registry_entities", "UpdateRegistryEntities")
	c.Alias("delete_registry_entities", "DeleteRegistryEntities")
	return c
}

// GetCredentials returns the registry credentials.
func (c *FalconContainer) GetCredentials(ctx context.Context) *domain.Response {
	return c.Invoke(ctx, "GetCredentials", domain.CommandOptions{})
}

// GetAssessment returns the assessment report of repository:tag.
func (c *FalconContainer) GetAssessment(ctx context.Context, repository, tag string) *domain.Response {
	return c.Invoke(ctx, domain.OpGetImageAssessmentReport, domain.CommandOptions{
		Keywords: map[string]any{"repository": repository, "tag": tag},
	})
}

// ImageMatchesPolicy checks repository:tag against the image prevention policy.
func (c *FalconContainer) ImageMatchesPolicy(ctx context.Context, repository, tag string) *domain.Response {
	return c.Invoke(ctx, domain.OpImageMatchesPolicy, domain.CommandOptions{
		Keywords: map[string]any{"repository": repository, "tag": tag},
	})
}

// DeleteImageDetails removes an image from the registry.
func (c *FalconContainer) DeleteImageDetails(ctx context.Context, imageID string) *domain.Response {
	return c.deleteImageDetails(ctx, domain.CommandOptions{ImageID: imageID})
}

// ReadImageVulnerabilities looks up vulnerabilities for a package list.
// Without a body the payload is built from the osversion, packages and
// applicationPackages keywords.
func (c *FalconContainer) ReadImageVulnerabilities(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	return c.readImageVulnerabilities(ctx, opts)
}

func (c *FalconContainer) readImageVulnerabilities(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	if opts.Body == nil {
		body := make(map[string]any)
		for _, key := range []string{"osversion", "packages", "applicationPackages"} {
			if v, ok := opts.Keywords[key]; ok {
				body[key] = v
			}
		}
		opts.Body = body
	}
	req := RequestFromOptions(opts)
	req.BodyValidator = domain.BodyValidator{
		"osversion":           domain.TypeString,
		"packages":            domain.TypeList,
		"applicationPackages": domain.TypeList,
	}
	return c.Call(ctx, "ReadImageVulnerabilities", req)
}

func (c *FalconContainer) deleteImageDetails(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	if opts.ImageID == "" {
		if v, ok := keyword(opts, "image_id"); ok {
			opts.ImageID = stringValue(v)
		}
	}
	if opts.ImageID == "" {
		return domain.ErrorResponse(domain.NewError(domain.KindValidation, "Argument image_id must be specified."))
	}
	return c.Call(ctx, domain.OpDeleteImageDetails, RequestFromOptions(opts))
}
