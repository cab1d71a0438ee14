package scenarios

// ExpectedOutline is the presentation structure of the sample document as
// the tables view copies it, with LF line endings.
const ExpectedOutline = `Table Index
Cover
    Cover Page
Financial Statements
    CONDENSED CONSOLIDATED BALANCE SHEETS
        CONDENSED CONSOLIDATED BALANCE SHEETS (Parenthetical)
    CONDENSED CONSOLIDATED BALANCE SHEETS (Parenthetical)
    CONDENSED CONSOLIDATED STATEMENTS OF OPERATIONS
        CONDENSED CONSOLIDATED STATEMENTS OF COMPREHENSIVE LOSS
            CONDENSED CONSOLIDATED STATEMENTS OF CASH FLOWS
    CONDENSED CONSOLIDATED STATEMENTS OF COMPREHENSIVE LOSS
        CONDENSED CONSOLIDATED STATEMENTS OF CASH FLOWS
    CONSOLIDATED STATEMENTS OF CHANGES IN STOCKHOLDERS' EQUITY
    CONDENSED CONSOLIDATED STATEMENTS OF CASH FLOWS
Notes to Financial Statements
    Organization and Significant Accounting Policies
        Organization and Significant Accounting Policies (Policies)
            Organization and Significant Accounting Policies - Accounting Pronouncements (Details)
    Supplemental Consolidated Balance Sheet Information
        Supplemental Consolidated Balance Sheet Information (Tables)
            Supplemental Consolidated Balance Sheet Information - Accrued Expenses and Other Current Liabilities (Details)
    Cash Equivalents and Marketable Securities
        Cash Equivalents and Marketable Securities (Tables)
            Cash Equivalents and Marketable Securities - Schedule of Marketable Securities (Details)
                Cash Equivalents and Marketable Securities - Schedule of Contractual Maturities (Details)
    Fair Value Measurements
        Fair Value Measurements (Tables)
            Fair Value Measurements (Details)
    Convertible Senior Notes
        Convertible Senior Notes (Tables)
            Convertible Senior Notes (Details)
                Convertible Senior Notes - Summary of Convertible Debt (Details)
                    Convertible Senior Notes - Summary of Interest Expense (Details)
    Commitments and Contingencies
    Stock-Based Compensation
        Stock-Based Compensation (Tables)
            Stock-Based Compensation - Expense (Details)
                Stock-Based Compensation - Employee Stock Purchase Plan (Details)
    Revenue Recognition
        Revenue Recognition (Tables)
            Revenue Recognition - Disaggregation of Revenue (Details)
                Revenue Recognition - Deferred Revenue and Transaction Price Allocated to the Remaining Performance Obligations (Details)
    Net Loss Per Share
        Net Loss Per Share (Tables)
            Net Loss Per Share - Earnings Per Share Basic and Diluted (Details)
                Net Loss Per Share - Antidilutive Securities Excluded from Computation of Earnings Per Share (Details)
    Intangible Assets
        Intangible Assets (Tables)
            Intangible Assets - Intangible Asset Components (Details)
                Intangible Assets - Amortization of Intangible Assets by Fiscal Year (Details)
    Subsequent Events
        Subsequent Events (Details)
Accounting Policies
    Organization and Significant Accounting Policies (Policies)
        Organization and Significant Accounting Policies - Accounting Pronouncements (Details)
Notes Tables
    Supplemental Consolidated Balance Sheet Information (Tables)
        Supplemental Consolidated Balance Sheet Information - Accrued Expenses and Other Current Liabilities (Details)
    Cash Equivalents and Marketable Securities (Tables)
        Cash Equivalents and Marketable Securities - Schedule of Marketable Securities (Details)
            Cash Equivalents and Marketable Securities - Schedule of Contractual Maturities (Details)
    Fair Value Measurements (Tables)
        Fair Value Measurements (Details)
    Convertible Senior Notes (Tables)
        Convertible Senior Notes (Details)
            Convertible Senior Notes - Summary of Convertible Debt (Details)
                Convertible Senior Notes - Summary of Interest Expense (Details)
    Stock-Based Compensation (Tables)
        Stock-Based Compensation - Expense (Details)
            Stock-Based Compensation - Employee Stock Purchase Plan (Details)
    Revenue Recognition (Tables)
        Revenue Recognition - Disaggregation of Revenue (Details)
            Revenue Recognition - Deferred Revenue and Transaction Price Allocated to the Remaining Performance Obligations (Details)
    Net Loss Per Share (Tables)
        Net Loss Per Share - Earnings Per Share Basic and Diluted (Details)
            Net Loss Per Share - Antidilutive Securities Excluded from Computation of Earnings Per Share (Details)
    Intangible Assets (Tables)
        Intangible Assets - Intangible Asset Components (Details)
            Intangible Assets - Amortization of Intangible Assets by Fiscal Year (Details)
Notes Details
    Organization and Significant Accounting Policies - Accounting Pronouncements (Details)
    Supplemental Consolidated Balance Sheet Information - Accrued Expenses and Other Current Liabilities (Details)
    Cash Equivalents and Marketable Securities - Schedule of Marketable Securities (Details)
        Cash Equivalents and Marketable Securities - Schedule of Contractual Maturities (Details)
    Cash Equivalents and Marketable Securities - Schedule of Contractual Maturities (Details)
    Cash Equivalents and Marketable Securities - Continuous Unrealized Loss Position (Details)
    Fair Value Measurements (Details)
    Convertible Senior Notes (Details)
        Convertible Senior Notes - Summary of Convertible Debt (Details)
            Convertible Senior Notes - Summary of Interest Expense (Details)
    Convertible Senior Notes - Summary of Convertible Debt (Details)
        Convertible Senior Notes - Summary of Interest Expense (Details)
    Convertible Senior Notes - Summary of Interest Expense (Details)
    Stock-Based Compensation - Expense (Details)
        Stock-Based Compensation - Employee Stock Purchase Plan (Details)
    Stock-Based Compensation - Stock Options (Details)
        Stock-Based Compensation - Restricted Stock Units (Details)
    Stock-Based Compensation - Restricted Stock Units (Details)
    Stock-Based Compensation - Employee Stock Purchase Plan (Details)
    Revenue Recognition - Disaggregation of Revenue (Details)
        Revenue Recognition - Deferred Revenue and Transaction Price Allocated to the Remaining Performance Obligations (Details)
    Revenue Recognition - Deferred Revenue and Transaction Price Allocated to the Remaining Performance Obligations (Details)
    Net Loss Per Share - Earnings Per Share Basic and Diluted (Details)
        Net Loss Per Share - Antidilutive Securities Excluded from Computation of Earnings Per Share (Details)
    Net Loss Per Share - Antidilutive Securities Excluded from Computation of Earnings Per Share (Details)
    Intangible Assets - Intangible Asset Components (Details)
        Intangible Assets - Amortization of Intangible Assets by Fiscal Year (Details)
    Intangible Assets (Details)
    Intangible Assets - Amortization of Intangible Assets by Fiscal Year (Details)
    Subsequent Events (Details)`
