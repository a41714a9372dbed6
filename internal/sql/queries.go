package sql

import (
	_ "embed"
)

//go:embed queries/register_load_batch.sql
var RegisterLoadBatch string

//go:embed queries/lookup_load_batch.sql
var LookupLoadBatch string

//go:embed queries/batch_facts_exist.sql
var BatchFactsExist string

//go:embed queries/update_batch_status.sql
var UpdateBatchStatus string

//go:embed queries/set_batch_row_count.sql
var SetBatchRowCount string

//go:embed queries/truncate_star.sql
var TruncateStar string

//go:embed queries/mark_rejects.sql
var MarkRejects string

//go:embed queries/count_dangling.sql
var CountDangling string

//go:embed queries/verify_counts.sql
var VerifyCounts string

//go:embed queries/delete_staging_batch.sql
var DeleteStagingBatch string

//go:embed queries/report_by_smoker.sql
var ReportBySmoker string

//go:embed queries/report_by_region.sql
var ReportByRegion string

//go:embed queries/report_by_sex.sql
var ReportBySex string

//go:embed queries/report_by_children.sql
var ReportByChildren string

//go:embed queries/report_by_age_group.sql
var ReportByAgeGroup string

//go:embed queries/report_by_bmi_category.sql
var ReportByBMICategory string

//go:embed queries/report_obese_smokers.sql
var ReportObeseSmokers string
