package warehouse

import "fmt"

const (
	// TelemetryQueryName keys the combined telemetry query and names its
	// snapshot file.
	TelemetryQueryName = "ansible_all_telemetry_combined_reliable"

	telemetryQueryDescription = "Comprehensive, denormalized Ansible telemetry data: " +
		"job execution, cluster, host, modules, Lightspeed, and entitlements."

	// DefaultLookbackYears bounds the extraction window. Together with
	// DefaultRowCap it makes the extract a sample, not a complete export.
	DefaultLookbackYears = 1
	DefaultRowCap        = 50000
)

// Query is one registry entry: a named SQL text plus the human description
// that ends up in the snapshot document.
type Query struct {
	Name        string
	Description string
	SQL         string
}

// Queries returns the configured query set. There is exactly one today; the
// extractor loops regardless so adding a second is a registry change only.
func Queries(lookbackYears, rowCap int) []Query {
	return []Query{BuildTelemetryQuery(lookbackYears, rowCap)}
}

// BuildTelemetryQuery produces the eight-way left-join telemetry query with
// the given lookback window and row cap. The join fans out across modules and
// hosts, so a single job can appear in many rows; cluster-level consumers
// must deduplicate by (job_org_id, job_cluster_id) on the latest
// job_created_date.
func BuildTelemetryQuery(lookbackYears, rowCap int) Query {
	if lookbackYears <= 0 {
		lookbackYears = DefaultLookbackYears
	}
	if rowCap <= 0 {
		rowCap = DefaultRowCap
	}
	return Query{
		Name:        TelemetryQueryName,
		Description: telemetryQueryDescription,
		SQL: fmt.Sprintf(`SELECT
    aji.created AS job_created_timestamp,
    DATE(aji.created) AS job_created_date,
    aji.job_id,
    aji.job_name,
    aji.status AS job_status,
    aji.failed AS job_failed_flag,
    aji.elapsed AS job_elapsed_seconds,
    aji.launch_type,
    aji.org_id AS job_org_id,
    aji.cluster_id AS job_cluster_id,

    ajr.host_count AS job_host_count,
    ajr.ok_host_count AS job_ok_host_count,
    ajr.failed_host_count AS job_failed_host_count,
    ajr.host_task_count AS job_task_count,
    ajr.host_task_ok_count AS job_task_ok_count,
    ajr.host_task_failed_count AS job_task_failed_count,
    ajr.average_elapsed_per_host AS job_avg_elapsed_per_host,

    aci.tower_version,
    aci.license_type,
    aci.total_licensed_instances,
    aci.automated_instances AS cluster_automated_instances,
    aci.current_instances AS cluster_current_inventory_hosts,
    aci.is_compliant,
    aci.subscription_name,
    aci.in_trial AS cluster_in_trial_flag,

    acm.url_base_value AS cluster_url,

    adhc.failed_hosts AS daily_host_failed_count,
    adhc.success_hosts AS daily_host_success_count,
    adhc.total_hosts AS daily_host_total_count,

    ahi.host_id AS daily_host_activity_id,
    ahi.created_date AS daily_host_activity_date,

    ahm.hostname AS host_metric_hostname,
    ahm.deleted AS host_metric_deleted_flag,
    ahm.automated_counter AS host_metric_automation_count,
    ahm.last_seen AS host_metric_last_seen,

    amr.collection_name,
    amr.module_name,
    amr.total_count AS module_invocation_count,

    alpf.rating_value AS lightspeed_feedback_rating,
    alpf.model_name AS lightspeed_feedback_model,

    alr.action AS lightspeed_recommendation_action,
    alr.collection_name AS lightspeed_rec_collection_name,
    alr.module_name AS lightspeed_rec_module_name,

    aed.final_global_customer_name AS customer_global_name,
    aed.entl_nodes_type,
    aed.entl_quantity AS customer_entitled_nodes,
    aed.startdate AS entitlement_start_date,
    aed.enddate AS entitlement_end_date,
    aed.status AS entitlement_status,
    aed.has_entl_info,
    aed.cyq

FROM cee_insights.ansible_job_info aji
LEFT JOIN cee_insights.ansible_job_rollup ajr
    ON aji.cluster_id = ajr.cluster_id AND aji.job_id = ajr.job_id
LEFT JOIN cee_insights.ansible_cluster_info aci
    ON aji.cluster_id = aci.cluster_id AND DATE(aji.created) = DATE(aci.created_date)
LEFT JOIN cee_insights.ansible_cluster_meta acm
    ON aji.cluster_id = acm.cluster_id
LEFT JOIN cee_insights.ansible_daily_host_count adhc
    ON aji.org_id = adhc.org_id AND DATE(aji.created) = DATE(adhc.created_date)
LEFT JOIN cee_insights.ansible_host_info ahi
    ON aji.org_id = ahi.org_id AND DATE(aji.created) = DATE(ahi.created_date)
LEFT JOIN cee_insights.ansible_host_metrics ahm
    ON aji.cluster_id = ahm.cluster_id AND aji.org_id = ahm.org_id
LEFT JOIN cee_insights.ansible_modules_rules amr
    ON aji.cluster_id = amr.cluster_id AND DATE(aji.created) = DATE(amr.created_date)
LEFT JOIN cee_insights.ansible_lightspeed_product_feedback alpf
    ON aji.org_id = alpf.org_id AND DATE(alpf.created) = DATE(aji.created)
LEFT JOIN cee_insights.ansible_lightspeed_recommendation alr
    ON aji.org_id = alr.org_id AND DATE(alr.created) = DATE(aji.created)
LEFT JOIN cee_insights.ansible_entitlements_data aed
    ON aji.org_id = aed.ebs_account

WHERE aji.created >= DATEADD(year, -%d, CURRENT_DATE)
LIMIT %d`, lookbackYears, rowCap),
	}
}
