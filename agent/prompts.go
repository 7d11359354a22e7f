package agent

// extractInformationPrompt asks the model for a single currency-tagged
// numeric answer, with "0" as the explicit unknown sentinel. Arguments: the
// search query and the gathered context block.
const extractInformationPrompt = `You are an expert financial analyst who has been tasked to obtain the latest information regarding "%s".

Currently you have gathered the following relevant data:
%s

What is %s? Give a numeric answer in SGD (e.g. S$2.00, S$400 million, S$1.75 billion, etc.). If you are unable to find the answer, return 0.

Answer: `
