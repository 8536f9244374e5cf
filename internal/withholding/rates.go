package withholding

// 2025 federal and California rate constants. These are ENGINE-CONSTANTS
// for the tax year; updating to a new tax year means updating this file
// and the bracket tables below together.
const (
	// FICA
	SocialSecurityRate         = 0.062
	SocialSecurityWageBase     = int64(176_100_00) // cents
	MedicareRate               = 0.0145
	AdditionalMedicareRate     = 0.009
	AdditionalMedicareYTDFloor = int64(200_000_00)

	// FUTA (effective rate after the full state credit)
	FUTARate     = 0.006
	FUTAWageBase = int64(7_000_00)

	// California employer taxes
	CASUIWageBase = int64(7_000_00)
	CAETTRate     = 0.001

	// California employee taxes
	CASDIRate = 0.012
)

// FilingStatus mirrors the W-4 / DE-4 filing status election.
type FilingStatus string

const (
	FilingStatusSingle          FilingStatus = "single"
	FilingStatusMarried         FilingStatus = "married"
	FilingStatusHeadOfHousehold FilingStatus = "head_of_household"
)

// bracket is one row of an annualized percentage-method table. Thresholds
// and base amounts are annual cents.
type bracket struct {
	Floor int64
	Base  int64
	Rate  float64
}

// Federal percentage-method tables (Pub 15-T style, standard withholding).
// The standard deduction is built into the zero bracket.
var federalBrackets = map[FilingStatus][]bracket{
	FilingStatusSingle: {
		{Floor: 0, Base: 0, Rate: 0},
		{Floor: 6_400_00, Base: 0, Rate: 0.10},
		{Floor: 18_325_00, Base: 1_192_50, Rate: 0.12},
		{Floor: 54_875_00, Base: 5_578_50, Rate: 0.22},
		{Floor: 109_750_00, Base: 17_651_00, Rate: 0.24},
		{Floor: 203_700_00, Base: 40_199_00, Rate: 0.32},
		{Floor: 256_925_00, Base: 57_231_00, Rate: 0.35},
		{Floor: 632_750_00, Base: 188_769_75, Rate: 0.37},
	},
	FilingStatusMarried: {
		{Floor: 0, Base: 0, Rate: 0},
		{Floor: 17_100_00, Base: 0, Rate: 0.10},
		{Floor: 40_950_00, Base: 2_385_00, Rate: 0.12},
		{Floor: 114_050_00, Base: 11_157_00, Rate: 0.22},
		{Floor: 223_800_00, Base: 35_302_00, Rate: 0.24},
		{Floor: 411_700_00, Base: 80_398_00, Rate: 0.32},
		{Floor: 518_150_00, Base: 114_462_00, Rate: 0.35},
		{Floor: 768_700_00, Base: 202_154_50, Rate: 0.37},
	},
	FilingStatusHeadOfHousehold: {
		{Floor: 0, Base: 0, Rate: 0},
		{Floor: 13_900_00, Base: 0, Rate: 0.10},
		{Floor: 30_900_00, Base: 1_700_00, Rate: 0.12},
		{Floor: 78_750_00, Base: 7_442_00, Rate: 0.22},
		{Floor: 117_250_00, Base: 15_912_00, Rate: 0.24},
		{Floor: 211_200_00, Base: 38_460_00, Rate: 0.32},
		{Floor: 264_400_00, Base: 55_484_00, Rate: 0.35},
		{Floor: 640_250_00, Base: 187_031_50, Rate: 0.37},
	},
}

// California DE-4 method tables (EDD Method B, simplified schedule).
var caBrackets = map[FilingStatus][]bracket{
	FilingStatusSingle: {
		{Floor: 0, Base: 0, Rate: 0.011},
		{Floor: 10_756_00, Base: 118_32, Rate: 0.022},
		{Floor: 25_499_00, Base: 442_66, Rate: 0.044},
		{Floor: 40_245_00, Base: 1_091_48, Rate: 0.066},
		{Floor: 55_866_00, Base: 2_122_47, Rate: 0.088},
		{Floor: 70_606_00, Base: 3_419_59, Rate: 0.1023},
		{Floor: 360_659_00, Base: 33_092_01, Rate: 0.1133},
		{Floor: 432_787_00, Base: 41_264_11, Rate: 0.1243},
		{Floor: 721_314_00, Base: 77_128_02, Rate: 0.1353},
	},
	FilingStatusMarried: {
		{Floor: 0, Base: 0, Rate: 0.011},
		{Floor: 21_512_00, Base: 236_63, Rate: 0.022},
		{Floor: 50_998_00, Base: 885_32, Rate: 0.044},
		{Floor: 80_490_00, Base: 2_182_97, Rate: 0.066},
		{Floor: 111_732_00, Base: 4_244_94, Rate: 0.088},
		{Floor: 141_212_00, Base: 6_839_18, Rate: 0.1023},
		{Floor: 721_318_00, Base: 66_184_02, Rate: 0.1133},
		{Floor: 865_574_00, Base: 82_528_22, Rate: 0.1243},
		{Floor: 1_442_628_00, Base: 154_256_03, Rate: 0.1353},
	},
	FilingStatusHeadOfHousehold: {
		{Floor: 0, Base: 0, Rate: 0.011},
		{Floor: 21_527_00, Base: 236_80, Rate: 0.022},
		{Floor: 51_000_00, Base: 885_21, Rate: 0.044},
		{Floor: 65_744_00, Base: 1_533_95, Rate: 0.066},
		{Floor: 81_364_00, Base: 2_564_87, Rate: 0.088},
		{Floor: 96_107_00, Base: 3_862_25, Rate: 0.1023},
		{Floor: 490_493_00, Base: 44_207_94, Rate: 0.1133},
		{Floor: 588_593_00, Base: 55_321_67, Rate: 0.1243},
		{Floor: 980_987_00, Base: 104_101_25, Rate: 0.1353},
	},
}

// California standard deduction and per-allowance exemption credit
// (annual cents, 2025 values).
const (
	caStandardDeductionSingle  = int64(5_540_00)
	caStandardDeductionMarried = int64(11_080_00)
	caLowIncomeExemptionSingle = int64(18_368_00)
	caLowIncomeExemptionJoint  = int64(36_736_00)
	caAllowanceCredit          = int64(163_90)
)

// PeriodType enumerates supported pay frequencies.
type PeriodType string

const (
	PeriodWeekly      PeriodType = "weekly"
	PeriodBiweekly    PeriodType = "biweekly"
	PeriodSemimonthly PeriodType = "semimonthly"
	PeriodMonthly     PeriodType = "monthly"
)

// PeriodsPerYear returns the annualization factor for a pay frequency.
func PeriodsPerYear(p PeriodType) (int, error) {
	switch p {
	case PeriodWeekly:
		return 52, nil
	case PeriodBiweekly:
		return 26, nil
	case PeriodSemimonthly:
		return 24, nil
	case PeriodMonthly:
		return 12, nil
	default:
		return 0, ErrInvalidPeriodType
	}
}
